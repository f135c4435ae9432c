package discovery

import (
	"context"
	"sort"
	"time"

	"github.com/oggyb/matcha/internal/metrics"
)

// Suggest returns the ranked suggestion feed for the viewer.
//
// Behavior:
//   - Candidates are compatible, activated, not blocked by the viewer, own at
//     least one picture and are within the configured radius.
//   - Ranked by distance ascending, then shared interests descending, then
//     fame stars descending.
//
// Example:
//
//	profiles, err := e.Suggest(ctx, 1)
func (e *Engine) Suggest(ctx context.Context, viewerID uint64) (profiles []Profile, err error) {
	start := time.Now()
	defer func() { metrics.ObserveDiscovery("suggest", start, len(profiles), err) }()

	v, err := e.loadViewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	distances, err := e.candidates.Suggestions(ctx, v.party(), v.lat, v.lon, e.cfg.SuggestRadiusKm)
	if err != nil {
		return nil, err
	}
	ids := keysOf(distances)
	if err := e.withoutBlocked(ctx, viewerID, ids); err != nil {
		return nil, err
	}

	profiles, err = e.hydrate(ctx, ids.slice(), v.lat, v.lon, true)
	if err != nil {
		return nil, err
	}

	mine, err := e.profiles.GetInterestsByUserID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	for i := range profiles {
		profiles[i].SharedInterests = countShared(mine, profiles[i].Interests)
	}

	rankSuggestions(profiles)

	e.log.Debug("suggestions resolved", "viewer", viewerID, "radius_km", e.cfg.SuggestRadiusKm, "results", len(profiles))
	return profiles, nil
}

// rankSuggestions orders by distance asc, shared interests desc, stars desc.
func rankSuggestions(profiles []Profile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		a, b := profiles[i], profiles[j]
		if dA, dB := distanceOf(a), distanceOf(b); dA != dB {
			return dA < dB
		}
		if a.SharedInterests != b.SharedInterests {
			return a.SharedInterests > b.SharedInterests
		}
		return a.Fame.Stars > b.Fame.Stars
	})
}

func distanceOf(p Profile) float64 {
	if p.DistanceKm == nil {
		return -1
	}
	return *p.DistanceKm
}
