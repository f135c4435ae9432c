package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/db"
)

// EventRepository stores notification events for the polling feed.
type EventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new repository bound to the given DB connection.
func NewEventRepository(database *gorm.DB) *EventRepository {
	return &EventRepository{db: database}
}

// Emit records an event for recipient about actor.
//
// Behavior:
//   - new_message is deduplicated: while an undelivered new_message from the
//     same actor exists, its updated_at is advanced instead of inserting.
//     deduped reports that case.
//   - Every other type always inserts a new row.
//
// Example:
//
//	repo.Emit(ctx, 2, 1, db.EventLikedMe) // tell user 2 that user 1 liked them
func (r *EventRepository) Emit(ctx context.Context, recipientID, actorID uint64, typ db.EventType) (bool, error) {
	if typ == db.EventNewMessage {
		var pending []db.Event
		err := r.db.WithContext(ctx).
			Where("recipient_id = ? AND actor_id = ? AND type = ? AND status = ?",
				recipientID, actorID, db.EventNewMessage, db.EventStatusNew).
			Limit(1).
			Find(&pending).Error
		if err != nil {
			return false, err
		}
		if len(pending) > 0 {
			err := r.db.WithContext(ctx).
				Model(&pending[0]).
				Update("updated_at", r.db.NowFunc()).Error
			return true, err
		}
	}

	ev := db.Event{
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        typ,
		Status:      db.EventStatusNew,
	}
	return false, r.db.WithContext(ctx).Create(&ev).Error
}

// Undelivered lists a recipient's events still in status new, oldest first.
func (r *EventRepository) Undelivered(ctx context.Context, recipientID uint64) ([]db.Event, error) {
	var events []db.Event
	err := r.db.WithContext(ctx).
		Where("recipient_id = ? AND status = ?", recipientID, db.EventStatusNew).
		Order("id ASC").
		Find(&events).Error
	return events, err
}

// MarkDelivered flips the given events to delivered.
func (r *EventRepository) MarkDelivered(ctx context.Context, ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&db.Event{}).
		Where("id IN ?", ids).
		Update("status", db.EventStatusDelivered).Error
}
