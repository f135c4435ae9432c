// Package discovery resolves search criteria and the suggestion feed into
// decorated candidate profiles.
package discovery

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/age"
	"github.com/oggyb/matcha/internal/compat"
	"github.com/oggyb/matcha/internal/db"
	svcErr "github.com/oggyb/matcha/internal/errors"
	"github.com/oggyb/matcha/internal/fame"
	"github.com/oggyb/matcha/internal/geo"
	"github.com/oggyb/matcha/internal/repository"
)

// ProfileStore supplies viewer data and the rows candidates are hydrated from.
type ProfileStore interface {
	GetUserByID(ctx context.Context, id uint64) (*db.User, error)
	GetLocationByUserID(ctx context.Context, userID uint64) (*db.Location, error)
	GetInterestsByUserID(ctx context.Context, userID uint64) ([]string, error)
	CountFameRatings(ctx context.Context) (int64, error)
	ProfileRows(ctx context.Context, ids []uint64) ([]repository.ProfileRow, error)
	InterestsByUserIDs(ctx context.Context, ids []uint64) (map[uint64][]string, error)
	ProfilePictures(ctx context.Context, ids []uint64) (map[uint64]string, error)
}

// CandidateStore answers one candidate query per criterion. Implementations
// must apply the compatibility scope and activation filter to every query.
type CandidateStore interface {
	WithinDistance(ctx context.Context, viewer compat.Party, lat, lon, minKm, maxKm float64) (map[uint64]float64, error)
	Suggestions(ctx context.Context, viewer compat.Party, lat, lon, radiusKm float64) (map[uint64]float64, error)
	AgeBetween(ctx context.Context, viewer compat.Party, minAge, maxAge int, now time.Time) ([]uint64, error)
	WithAllInterests(ctx context.Context, viewer compat.Party, tags []string) ([]uint64, error)
	LikedCountBetween(ctx context.Context, viewer compat.Party, lo, hi int64) ([]uint64, error)
}

// RelationStore exposes the relationship edges discovery reads.
type RelationStore interface {
	BlockedBy(ctx context.Context, blockerID uint64) ([]uint64, error)
	IsBlocked(ctx context.Context, blockerID, blockedID uint64) (bool, error)
	HasLiked(ctx context.Context, likerID, likedID uint64) (bool, error)
}

type Config struct {
	// SuggestRadiusKm is the fixed radius of the suggestion feed.
	SuggestRadiusKm float64
	// Now defaults to time.Now; ages are computed against it.
	Now func() time.Time
}

// Profile is a decorated candidate.
type Profile struct {
	ID             uint64
	Username       string
	Age            int
	DistanceKm     *float64
	Interests      []string
	Fame           fame.Rating
	ProfilePicture string
	// SharedInterests is only filled by Suggest and ProfileOf.
	SharedInterests int
}

// Engine runs search and suggestion queries. It holds no cache: every call
// recomputes from the store.
type Engine struct {
	profiles   ProfileStore
	candidates CandidateStore
	relations  RelationStore
	cfg        Config
	log        *slog.Logger
}

func NewEngine(profiles ProfileStore, candidates CandidateStore, relations RelationStore, cfg Config, log *slog.Logger) *Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Engine{
		profiles:   profiles,
		candidates: candidates,
		relations:  relations,
		cfg:        cfg,
		log:        log,
	}
}

// NewGormEngine wires an Engine to the gorm repositories.
func NewGormEngine(database *gorm.DB, cfg Config, log *slog.Logger) *Engine {
	return NewEngine(
		repository.NewProfileRepository(database),
		repository.NewCandidateRepository(database),
		repository.NewRelationshipRepository(database),
		cfg, log,
	)
}

// viewer is the requesting user together with a location that has coordinates.
type viewer struct {
	user *db.User
	lat  float64
	lon  float64
}

func (v viewer) party() compat.Party { return compat.PartyOf(v.user) }

// loadViewer fetches the user and insists on stored coordinates.
func (e *Engine) loadViewer(ctx context.Context, viewerID uint64) (viewer, error) {
	u, err := e.loadUser(ctx, viewerID)
	if err != nil {
		return viewer{}, err
	}
	loc, err := e.profiles.GetLocationByUserID(ctx, viewerID)
	if err != nil {
		return viewer{}, err
	}
	if !loc.HasCoordinates() {
		return viewer{}, svcErr.Validationf("a location is required before using discovery")
	}
	return viewer{user: u, lat: *loc.Latitude, lon: *loc.Longitude}, nil
}

func (e *Engine) loadUser(ctx context.Context, id uint64) (*db.User, error) {
	u, err := e.profiles.GetUserByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, svcErr.NotFoundf("user %d not found", id)
	}
	return u, err
}

// withoutBlocked drops every id the viewer has blocked.
func (e *Engine) withoutBlocked(ctx context.Context, viewerID uint64, ids idSet) error {
	blocked, err := e.relations.BlockedBy(ctx, viewerID)
	if err != nil {
		return err
	}
	for _, id := range blocked {
		delete(ids, id)
	}
	return nil
}

// hydrate builds display profiles for ids. Distance is measured from
// (lat, lon) when hasOrigin is set and the candidate has coordinates.
func (e *Engine) hydrate(ctx context.Context, ids []uint64, lat, lon float64, hasOrigin bool) ([]Profile, error) {
	profiles := make([]Profile, 0, len(ids))
	if len(ids) == 0 {
		return profiles, nil
	}

	rows, err := e.profiles.ProfileRows(ctx, ids)
	if err != nil {
		return nil, err
	}
	interests, err := e.profiles.InterestsByUserIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	pictures, err := e.profiles.ProfilePictures(ctx, ids)
	if err != nil {
		return nil, err
	}
	total, err := e.profiles.CountFameRatings(ctx)
	if err != nil {
		return nil, err
	}

	now := e.cfg.Now()
	for _, row := range rows {
		p := Profile{
			ID:             row.UserID,
			Username:       row.Username,
			Age:            age.At(row.DateOfBirth, now),
			Interests:      interests[row.UserID],
			Fame:           fame.NewRating(total, row.LikedCount),
			ProfilePicture: pictures[row.UserID],
		}
		if p.Interests == nil {
			p.Interests = []string{}
		}
		if hasOrigin && row.Latitude != nil && row.Longitude != nil {
			d := geo.DistanceKm(lat, lon, *row.Latitude, *row.Longitude)
			p.DistanceKm = &d
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

func countShared(mine, theirs []string) int {
	if len(mine) == 0 || len(theirs) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(mine))
	for _, tag := range mine {
		set[tag] = struct{}{}
	}
	n := 0
	for _, tag := range theirs {
		if _, ok := set[tag]; ok {
			n++
		}
	}
	return n
}
