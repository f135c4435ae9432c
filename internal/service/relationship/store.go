package relationship

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/db"
	"github.com/oggyb/matcha/internal/repository"
)

// Tx is the storage surface a toggle works against. Calls made through the
// Tx handed to Store.InTx share one transaction.
type Tx interface {
	GetUserByID(ctx context.Context, id uint64) (*db.User, error)
	HasProfilePicture(ctx context.Context, userID uint64) (bool, error)
	CountFameRatings(ctx context.Context) (int64, error)

	SetLike(ctx context.Context, likerID, likedID uint64, active bool) (bool, error)
	HasLiked(ctx context.Context, likerID, likedID uint64) (bool, error)
	AdjustLikedCount(ctx context.Context, userID uint64, delta int64) error
	LikedCount(ctx context.Context, userID uint64) (int64, error)
	LikersOf(ctx context.Context, likedID uint64) ([]db.LikedHistory, error)
	SetBlock(ctx context.Context, blockerID, blockedID uint64, active bool) (bool, error)
	SetFake(ctx context.Context, reporterID, reportedID uint64, active bool) (bool, error)
	RecordView(ctx context.Context, viewerID, viewedID uint64) (bool, error)

	Emit(ctx context.Context, recipientID, actorID uint64, typ db.EventType) (bool, error)
	Undelivered(ctx context.Context, recipientID uint64) ([]db.Event, error)
	MarkDelivered(ctx context.Context, ids []uint64) error
}

// Store runs reads directly and groups writes with InTx. If fn returns an
// error every write made through its Tx is rolled back.
type Store interface {
	Tx
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

type repos struct {
	*repository.ProfileRepository
	*repository.RelationshipRepository
	*repository.EventRepository
}

func newRepos(database *gorm.DB) repos {
	return repos{
		ProfileRepository:      repository.NewProfileRepository(database),
		RelationshipRepository: repository.NewRelationshipRepository(database),
		EventRepository:        repository.NewEventRepository(database),
	}
}

type gormStore struct {
	repos
	db *gorm.DB
}

// NewGormStore backs Store with the gorm repositories.
func NewGormStore(database *gorm.DB) Store {
	return &gormStore{repos: newRepos(database), db: database}
}

func (s *gormStore) InTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(newRepos(tx))
	})
}
