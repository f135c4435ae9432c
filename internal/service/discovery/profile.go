package discovery

import (
	"context"

	"github.com/oggyb/matcha/internal/db"
	svcErr "github.com/oggyb/matcha/internal/errors"
)

// ProfileView is the full profile of one user as seen by a viewer.
type ProfileView struct {
	Profile
	FirstName   string
	LastName    string
	Bio         string
	Gender      db.Gender
	Orientation db.Orientation

	LikedByMe   bool
	LikesMe     bool
	Connected   bool
	BlockedByMe bool
}

// ProfileOf decorates target for viewer. Unlike discovery it does not
// require the viewer to have a location; distance is then left empty.
func (e *Engine) ProfileOf(ctx context.Context, viewerID, targetID uint64) (*ProfileView, error) {
	target, err := e.loadUser(ctx, targetID)
	if err != nil {
		return nil, err
	}

	loc, err := e.profiles.GetLocationByUserID(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	var lat, lon float64
	if loc.HasCoordinates() {
		lat, lon = *loc.Latitude, *loc.Longitude
	}

	profiles, err := e.hydrate(ctx, []uint64{targetID}, lat, lon, loc.HasCoordinates())
	if err != nil {
		return nil, err
	}
	if len(profiles) == 0 {
		return nil, svcErr.NotFoundf("user %d not found", targetID)
	}

	mine, err := e.profiles.GetInterestsByUserID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{
		Profile:     profiles[0],
		FirstName:   target.FirstName,
		LastName:    target.LastName,
		Bio:         target.Bio,
		Gender:      target.Gender,
		Orientation: target.Orientation,
	}
	view.SharedInterests = countShared(mine, view.Interests)

	if view.LikedByMe, err = e.relations.HasLiked(ctx, viewerID, targetID); err != nil {
		return nil, err
	}
	if view.LikesMe, err = e.relations.HasLiked(ctx, targetID, viewerID); err != nil {
		return nil, err
	}
	view.Connected = view.LikedByMe && view.LikesMe
	if view.BlockedByMe, err = e.relations.IsBlocked(ctx, viewerID, targetID); err != nil {
		return nil, err
	}
	return view, nil
}
