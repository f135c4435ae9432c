package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/age"
	"github.com/oggyb/matcha/internal/compat"
	"github.com/oggyb/matcha/internal/fame"
	"github.com/oggyb/matcha/internal/geo"
)

// CandidateRepository answers the per-criterion candidate queries of discovery.
// Every query applies compat.Scope: activated, not the viewer, mutually compatible.
type CandidateRepository struct {
	db *gorm.DB
}

// NewCandidateRepository creates a new repository bound to the given DB connection.
func NewCandidateRepository(database *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db: database}
}

type candidatePoint struct {
	ID        uint64
	Latitude  float64
	Longitude float64
}

// WithinDistance returns compatible candidates whose haversine distance from
// (lat, lon) lies in [minKm, maxKm], keyed by id with the distance as value.
//
// Behavior:
//   - Candidates without coordinates never match.
//   - A bounding box on the location index narrows rows before the exact check.
//
// Example:
//
//	repo.WithinDistance(ctx, viewer, 1.30, 103.80, 0, 10)
func (r *CandidateRepository) WithinDistance(
	ctx context.Context,
	viewer compat.Party,
	lat, lon, minKm, maxKm float64,
) (map[uint64]float64, error) {
	return r.nearby(ctx, viewer, lat, lon, minKm, maxKm, false)
}

// Suggestions returns compatible candidates within radiusKm of (lat, lon)
// who own at least one picture, keyed by id with the distance as value.
func (r *CandidateRepository) Suggestions(
	ctx context.Context,
	viewer compat.Party,
	lat, lon, radiusKm float64,
) (map[uint64]float64, error) {
	return r.nearby(ctx, viewer, lat, lon, 0, radiusKm, true)
}

// AgeBetween returns compatible candidates whose age on now lies in [minAge, maxAge].
// Birthdays count only once they have occurred in the current year.
func (r *CandidateRepository) AgeBetween(
	ctx context.Context,
	viewer compat.Party,
	minAge, maxAge int,
	now time.Time,
) ([]uint64, error) {
	earliest, latest := age.BirthRange(minAge, maxAge, now)

	var ids []uint64
	err := r.db.WithContext(ctx).
		Table("users u").
		Scopes(compat.Scope(viewer, "u")).
		Where("u.date_of_birth > ? AND u.date_of_birth <= ?", earliest, latest).
		Pluck("u.id", &ids).Error
	return ids, err
}

// WithAllInterests returns compatible candidates holding every tag in tags.
//
// Example:
//
//	repo.WithAllInterests(ctx, viewer, []string{"#jog", "#music"}) // both, not either
func (r *CandidateRepository) WithAllInterests(
	ctx context.Context,
	viewer compat.Party,
	tags []string,
) ([]uint64, error) {
	holders := r.db.
		Table("interests").
		Select("user_id").
		Where("tag IN ?", tags).
		Group("user_id").
		Having("COUNT(DISTINCT tag) = ?", len(tags))

	var ids []uint64
	err := r.db.WithContext(ctx).
		Table("users u").
		Scopes(compat.Scope(viewer, "u")).
		Where("u.id IN (?)", holders).
		Pluck("u.id", &ids).Error
	return ids, err
}

// LikedCountBetween returns compatible candidates whose fame counter lies in
// [lo, hi]. hi == fame.Unbounded leaves the range open above.
func (r *CandidateRepository) LikedCountBetween(
	ctx context.Context,
	viewer compat.Party,
	lo, hi int64,
) ([]uint64, error) {
	q := r.db.WithContext(ctx).
		Table("users u").
		Joins("LEFT JOIN fame_ratings f ON f.user_id = u.id").
		Scopes(compat.Scope(viewer, "u")).
		Where("COALESCE(f.liked_count, 0) >= ?", lo)
	if hi != fame.Unbounded {
		q = q.Where("COALESCE(f.liked_count, 0) <= ?", hi)
	}

	var ids []uint64
	err := q.Pluck("u.id", &ids).Error
	return ids, err
}

func (r *CandidateRepository) nearby(
	ctx context.Context,
	viewer compat.Party,
	lat, lon, minKm, maxKm float64,
	requirePicture bool,
) (map[uint64]float64, error) {
	box := geo.BoundingBox(lat, lon, maxKm)

	q := r.db.WithContext(ctx).
		Table("users u").
		Select("u.id AS id, l.latitude AS latitude, l.longitude AS longitude").
		Joins("JOIN locations l ON l.user_id = u.id").
		Scopes(compat.Scope(viewer, "u")).
		Where("l.latitude IS NOT NULL AND l.longitude IS NOT NULL").
		Where("l.latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if box.LonBounded {
		q = q.Where("l.longitude BETWEEN ? AND ?", box.MinLon, box.MaxLon)
	}
	if requirePicture {
		q = q.Where("EXISTS (SELECT 1 FROM pictures p WHERE p.user_id = u.id)")
	}

	var points []candidatePoint
	if err := q.Scan(&points).Error; err != nil {
		return nil, err
	}

	out := make(map[uint64]float64, len(points))
	for _, p := range points {
		d := geo.DistanceKm(lat, lon, p.Latitude, p.Longitude)
		if d >= minKm && d <= maxKm {
			out[p.ID] = d
		}
	}
	return out, nil
}
