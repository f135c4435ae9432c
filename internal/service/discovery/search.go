package discovery

import (
	"context"
	"fmt"
	"time"

	svcErr "github.com/oggyb/matcha/internal/errors"
	"github.com/oggyb/matcha/internal/fame"
	"github.com/oggyb/matcha/internal/metrics"
)

// Search validates in and runs SearchCriteria. Invalid input is rejected
// before the store is touched.
func (e *Engine) Search(ctx context.Context, viewerID uint64, in CriteriaInput) (profiles []Profile, err error) {
	start := time.Now()
	defer func() { metrics.ObserveDiscovery("search", start, len(profiles), err) }()

	criteria, err := ParseCriteria(in)
	if err != nil {
		return nil, err
	}
	return e.SearchCriteria(ctx, viewerID, criteria)
}

// SearchCriteria resolves already-validated criteria for the viewer.
//
// Behavior:
//   - Fails with a validation error if the viewer has no stored coordinates.
//   - Computes one candidate set per criterion (each compatibility-scoped),
//     intersects them and removes the ids the viewer has blocked.
//   - Returns hydrated profiles in no particular order.
//
// Example:
//
//	e.SearchCriteria(ctx, 1, []Criterion{DistanceRange{0, 10}, InterestSet{[]string{"#jog"}}})
func (e *Engine) SearchCriteria(ctx context.Context, viewerID uint64, criteria []Criterion) ([]Profile, error) {
	if len(criteria) == 0 {
		return nil, svcErr.Validationf("at least one search criterion is required")
	}

	v, err := e.loadViewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	sets := make([]idSet, 0, len(criteria))
	for _, c := range criteria {
		set, err := e.candidateSet(ctx, v, c)
		if err != nil {
			return nil, fmt.Errorf("search %T: %w", c, err)
		}
		sets = append(sets, set)
	}

	ids := intersect(sets)
	if err := e.withoutBlocked(ctx, viewerID, ids); err != nil {
		return nil, err
	}

	profiles, err := e.hydrate(ctx, ids.slice(), v.lat, v.lon, true)
	if err != nil {
		return nil, err
	}

	e.log.Debug("search resolved", "viewer", viewerID, "criteria", len(criteria), "results", len(profiles))
	return profiles, nil
}

func (e *Engine) candidateSet(ctx context.Context, v viewer, c Criterion) (idSet, error) {
	party := v.party()

	switch c := c.(type) {
	case DistanceRange:
		m, err := e.candidates.WithinDistance(ctx, party, v.lat, v.lon, c.MinKm, c.MaxKm)
		if err != nil {
			return nil, err
		}
		return keysOf(m), nil

	case AgeRange:
		ids, err := e.candidates.AgeBetween(ctx, party, c.Min, c.Max, e.cfg.Now())
		if err != nil {
			return nil, err
		}
		return setOf(ids), nil

	case InterestSet:
		ids, err := e.candidates.WithAllInterests(ctx, party, c.Tags)
		if err != nil {
			return nil, err
		}
		return setOf(ids), nil

	case FameRange:
		total, err := e.profiles.CountFameRatings(ctx)
		if err != nil {
			return nil, err
		}
		lo, hi, ok := fame.LikedRange(total, c.MinStars, c.MaxStars)
		if !ok {
			return idSet{}, nil
		}
		ids, err := e.candidates.LikedCountBetween(ctx, party, lo, hi)
		if err != nil {
			return nil, err
		}
		return setOf(ids), nil
	}

	return nil, fmt.Errorf("unknown criterion %T", c)
}
