package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/matcha/internal/db"
)

// RelationshipRepository provides data access for the directed relationship
// edges (liked, blocked, faked, viewed) and the fame counter they drive.
// Bind it to a transaction handle to make several calls atomic.
type RelationshipRepository struct {
	db *gorm.DB
}

// NewRelationshipRepository creates a new repository bound to the given DB connection.
func NewRelationshipRepository(database *gorm.DB) *RelationshipRepository {
	return &RelationshipRepository{db: database}
}

// SetLike makes the like edge liker -> liked present (active) or absent.
//
// Behavior:
//   - changed is false when the edge was already in the requested state.
//   - Composite PK guarantees a single row per ordered pair.
//   - The fame counter is not touched here; see AdjustLikedCount.
//
// Example:
//
//	changed, err := repo.SetLike(ctx, 1, 2, true) // user 1 likes user 2
func (r *RelationshipRepository) SetLike(ctx context.Context, likerID, likedID uint64, active bool) (bool, error) {
	return r.toggleEdge(ctx, &db.LikedHistory{LikerID: likerID, LikedID: likedID}, active)
}

// HasLiked checks whether liker currently likes liked.
//
// Example:
//
//	repo.HasLiked(ctx, 2, 1) // -> true if user 2 liked user 1 (reverse edge)
func (r *RelationshipRepository) HasLiked(ctx context.Context, likerID, likedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.LikedHistory{}).
		Where("liker_id = ? AND liked_id = ?", likerID, likedID).
		Count(&count).Error
	return count > 0, err
}

// AdjustLikedCount adds delta to the user's fame counter.
// The FameRating row is created at registration, so a missing row is an error.
func (r *RelationshipRepository) AdjustLikedCount(ctx context.Context, userID uint64, delta int64) error {
	res := r.db.WithContext(ctx).
		Model(&db.FameRating{}).
		Where("user_id = ?", userID).
		Update("liked_count", gorm.Expr("liked_count + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("fame rating row missing for user %d", userID)
	}
	return nil
}

// LikedCount returns the fame counter of a user (0 when no row exists).
func (r *RelationshipRepository) LikedCount(ctx context.Context, userID uint64) (int64, error) {
	var counts []int64
	err := r.db.WithContext(ctx).
		Model(&db.FameRating{}).
		Where("user_id = ?", userID).
		Pluck("liked_count", &counts).Error
	if err != nil || len(counts) == 0 {
		return 0, err
	}
	return counts[0], nil
}

// CountLikers counts LikedHistory rows pointing at the user; the fame counter
// must always equal this.
func (r *RelationshipRepository) CountLikers(ctx context.Context, likedID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.LikedHistory{}).
		Where("liked_id = ?", likedID).
		Count(&count).Error
	return count, err
}

// LikersOf returns every user who currently likes likedID, newest first.
//
// Behavior:
//   - Ordered by updated_at DESC, liker_id DESC.
//   - Unpaginated; populations are small.
//
// Example:
//
//	repo.LikersOf(ctx, 42) // everyone who liked user 42
func (r *RelationshipRepository) LikersOf(ctx context.Context, likedID uint64) ([]db.LikedHistory, error) {
	var likes []db.LikedHistory
	err := r.db.WithContext(ctx).
		Where("liked_id = ?", likedID).
		Order("updated_at DESC, liker_id DESC").
		Find(&likes).Error
	return likes, err
}

// SetBlock toggles the block edge blocker -> blocked. No counters, no events.
func (r *RelationshipRepository) SetBlock(ctx context.Context, blockerID, blockedID uint64, active bool) (bool, error) {
	return r.toggleEdge(ctx, &db.BlockedHistory{BlockerID: blockerID, BlockedID: blockedID}, active)
}

// IsBlocked checks whether blocker has blocked blocked.
func (r *RelationshipRepository) IsBlocked(ctx context.Context, blockerID, blockedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.BlockedHistory{}).
		Where("blocker_id = ? AND blocked_id = ?", blockerID, blockedID).
		Count(&count).Error
	return count > 0, err
}

// BlockedBy returns the ids blocker has blocked. Only this direction is
// applied to the blocker's discovery results.
func (r *RelationshipRepository) BlockedBy(ctx context.Context, blockerID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.BlockedHistory{}).
		Where("blocker_id = ?", blockerID).
		Pluck("blocked_id", &ids).Error
	return ids, err
}

// SetFake toggles the fake-profile report reporter -> reported.
func (r *RelationshipRepository) SetFake(ctx context.Context, reporterID, reportedID uint64, active bool) (bool, error) {
	return r.toggleEdge(ctx, &db.FakedHistory{ReporterID: reporterID, ReportedID: reportedID}, active)
}

// RecordView stores that viewer opened viewed's profile.
//
// Behavior:
//   - First view inserts the row and returns first = true.
//   - Repeat views only advance updated_at.
//
// Example:
//
//	first, err := repo.RecordView(ctx, 1, 2)
func (r *RelationshipRepository) RecordView(ctx context.Context, viewerID, viewedID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.ViewedHistory{}).
		Where("viewer_id = ? AND viewed_id = ?", viewerID, viewedID).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	if count > 0 {
		err := r.db.WithContext(ctx).
			Model(&db.ViewedHistory{}).
			Where("viewer_id = ? AND viewed_id = ?", viewerID, viewedID).
			Update("updated_at", r.db.NowFunc()).Error
		return false, err
	}

	view := db.ViewedHistory{ViewerID: viewerID, ViewedID: viewedID}
	if err := r.db.WithContext(ctx).Create(&view).Error; err != nil {
		return false, err
	}
	return true, nil
}

// toggleEdge inserts (active) or deletes the edge identified by the model's
// primary key and reports whether a row was affected.
func (r *RelationshipRepository) toggleEdge(ctx context.Context, edge any, active bool) (bool, error) {
	tx := r.db.WithContext(ctx)
	if active {
		res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(edge)
		return res.RowsAffected > 0, res.Error
	}
	res := tx.Delete(edge)
	return res.RowsAffected > 0, res.Error
}
