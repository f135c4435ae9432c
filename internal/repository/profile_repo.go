package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/matcha/internal/db"
)

// ProfileRepository reads and edits the profile side of a user: identity,
// location, interests, pictures and the fame row created with the account.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// ProfileRow is the joined user/location/fame data a display profile is built from.
type ProfileRow struct {
	UserID      uint64
	Username    string
	DateOfBirth time.Time
	Latitude    *float64
	Longitude   *float64
	LikedCount  int64
}

// CreateUser registers a user together with its empty location and a
// zero fame row, in one transaction.
func (r *ProfileRepository) CreateUser(ctx context.Context, u *db.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if err := tx.Create(&db.Location{UserID: u.ID}).Error; err != nil {
			return err
		}
		return tx.Create(&db.FameRating{UserID: u.ID}).Error
	})
}

// SetStatus changes the activation status of a user.
func (r *ProfileRepository) SetStatus(ctx context.Context, userID uint64, status db.Status) error {
	return r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", userID).
		Update("status", status).Error
}

// GetUserByID returns gorm.ErrRecordNotFound when the user does not exist.
func (r *ProfileRepository) GetUserByID(ctx context.Context, id uint64) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByEmail looks a user up by login email, returning
// gorm.ErrRecordNotFound when none matches.
func (r *ProfileRepository) GetUserByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetLocationByUserID returns nil without error when the user has no location row.
func (r *ProfileRepository) GetLocationByUserID(ctx context.Context, userID uint64) (*db.Location, error) {
	var loc db.Location
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&loc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// UpsertLocation stores the user's position, replacing any previous one.
func (r *ProfileRepository) UpsertLocation(ctx context.Context, loc *db.Location) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"latitude", "longitude", "neighborhood", "city", "country", "updated_at"}),
		}).
		Create(loc).Error
}

// GetInterestsByUserID returns the user's tags in alphabetical order.
func (r *ProfileRepository) GetInterestsByUserID(ctx context.Context, userID uint64) ([]string, error) {
	var tags []string
	err := r.db.WithContext(ctx).
		Model(&db.Interest{}).
		Where("user_id = ?", userID).
		Order("tag").
		Pluck("tag", &tags).Error
	return tags, err
}

// InterestsByUserIDs returns the tags of several users keyed by user id.
func (r *ProfileRepository) InterestsByUserIDs(ctx context.Context, ids []uint64) (map[uint64][]string, error) {
	out := make(map[uint64][]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []db.Interest
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Order("user_id, tag").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.UserID] = append(out[row.UserID], row.Tag)
	}
	return out, nil
}

// SetInterests replaces the user's tag set. Callers validate the tags.
func (r *ProfileRepository) SetInterests(ctx context.Context, userID uint64, tags []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&db.Interest{}).Error; err != nil {
			return err
		}
		if len(tags) == 0 {
			return nil
		}
		rows := make([]db.Interest, 0, len(tags))
		for _, tag := range tags {
			rows = append(rows, db.Interest{UserID: userID, Tag: tag})
		}
		return tx.Create(&rows).Error
	})
}

// AddPicture stores a picture reference. Marking it as profile picture
// clears the flag on the user's other pictures.
func (r *ProfileRepository) AddPicture(ctx context.Context, p *db.Picture) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.IsProfile {
			if err := tx.Model(&db.Picture{}).
				Where("user_id = ?", p.UserID).
				Update("is_profile", false).Error; err != nil {
				return err
			}
		}
		return tx.Create(p).Error
	})
}

// HasProfilePicture reports whether the user has at least one stored picture.
func (r *ProfileRepository) HasProfilePicture(ctx context.Context, userID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Picture{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

// ProfilePictures returns one picture path per user: the flagged profile
// picture, else the oldest upload. Users without pictures are absent.
func (r *ProfileRepository) ProfilePictures(ctx context.Context, ids []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var pics []db.Picture
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Order("user_id, is_profile DESC, id ASC").
		Find(&pics).Error
	if err != nil {
		return nil, err
	}
	for _, p := range pics {
		if _, ok := out[p.UserID]; !ok {
			out[p.UserID] = p.Path
		}
	}
	return out, nil
}

// CountFameRatings returns the population size the fame rating is relative to:
// every registered user owns one row.
func (r *ProfileRepository) CountFameRatings(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&db.FameRating{}).Count(&total).Error
	return total, err
}

// ProfileRows loads the display data for the given users, ordered by id.
func (r *ProfileRepository) ProfileRows(ctx context.Context, ids []uint64) ([]ProfileRow, error) {
	var rows []ProfileRow
	if len(ids) == 0 {
		return rows, nil
	}
	err := r.db.WithContext(ctx).
		Table("users u").
		Select(`u.id AS user_id, u.username AS username, u.date_of_birth AS date_of_birth,
			l.latitude AS latitude, l.longitude AS longitude,
			COALESCE(f.liked_count, 0) AS liked_count`).
		Joins("LEFT JOIN locations l ON l.user_id = u.id").
		Joins("LEFT JOIN fame_ratings f ON f.user_id = u.id").
		Where("u.id IN ?", ids).
		Order("u.id").
		Scan(&rows).Error
	return rows, err
}
