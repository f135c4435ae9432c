package matcha

import (
	"context"
	"errors"
	"strconv"

	"gorm.io/gorm"

	"github.com/oggyb/matcha/internal/app"
	"github.com/oggyb/matcha/internal/db"
	svcErr "github.com/oggyb/matcha/internal/errors"
	pb "github.com/oggyb/matcha/internal/proto/matcha"
	"github.com/oggyb/matcha/internal/service/discovery"
)

// Service implements the Matcha gRPC API.
// It parses wire ids, delegates to the discovery engine and the relationship
// service from AppContext, and maps their errors to gRPC codes.
type Service struct {
	appCtx *app.AppContext

	pb.UnimplementedMatchaServiceServer
}

// NewMatchaService creates a new Matcha service with dependencies from AppContext.
func NewMatchaService(appCtx *app.AppContext) *Service {
	return &Service{appCtx: appCtx}
}

func parseID(field, value string) (uint64, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil || id == 0 {
		return 0, svcErr.InvalidArgument(field + " must be a valid uint64")
	}
	return id, nil
}

func parsePair(actorField, actor, targetField, target string) (uint64, uint64, error) {
	a, err := parseID(actorField, actor)
	if err != nil {
		return 0, 0, err
	}
	b, err := parseID(targetField, target)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}

// fail logs err and converts it to a status. Domain errors are expected and
// logged at debug; anything else is logged at error and hidden from the caller.
func (s *Service) fail(method string, err error) error {
	if svcErr.KindOf(err) != 0 {
		s.appCtx.Logger.Debug(method+" rejected", "err", err)
	} else {
		s.appCtx.Logger.Error(method+" failed", "err", err)
	}
	return svcErr.Map(err)
}

func toProfile(p discovery.Profile) *pb.Profile {
	return &pb.Profile{
		UserId:          strconv.FormatUint(p.ID, 10),
		Username:        p.Username,
		Age:             p.Age,
		DistanceKm:      p.DistanceKm,
		Interests:       p.Interests,
		FameStars:       p.Fame.Stars,
		LikedCount:      p.Fame.LikedCount,
		ProfilePicture:  p.ProfilePicture,
		SharedInterests: p.SharedInterests,
	}
}

func toProfiles(profiles []discovery.Profile) *pb.ProfilesResponse {
	resp := &pb.ProfilesResponse{Profiles: make([]*pb.Profile, 0, len(profiles))}
	for _, p := range profiles {
		resp.Profiles = append(resp.Profiles, toProfile(p))
	}
	return resp
}

// Search returns compatible profiles matching every supplied criterion.
//
// Behavior:
//   - Criteria are validated once; bad input is InvalidArgument before any query.
//   - The viewer must have a stored location.
//   - Results carry distance, interests and fame; order is unspecified.
//
// Example:
//
//	svc.Search(ctx, &pb.SearchRequest{ViewerUserId: "1", Criteria: &pb.Criteria{Interests: []string{"#jog"}}})
func (s *Service) Search(ctx context.Context, req *pb.SearchRequest) (*pb.ProfilesResponse, error) {
	s.appCtx.Logger.Debug("Search called", "viewer", req.ViewerUserId)

	viewerID, err := parseID("viewer_user_id", req.ViewerUserId)
	if err != nil {
		return nil, err
	}

	var in discovery.CriteriaInput
	if c := req.Criteria; c != nil {
		in = discovery.CriteriaInput{
			MinDistanceKm: c.MinDistanceKm,
			MaxDistanceKm: c.MaxDistanceKm,
			MinAge:        c.MinAge,
			MaxAge:        c.MaxAge,
			MinStars:      c.MinStars,
			MaxStars:      c.MaxStars,
			Interests:     c.Interests,
		}
	}

	profiles, err := s.appCtx.Discovery.Search(ctx, viewerID, in)
	if err != nil {
		return nil, s.fail("Search", err)
	}

	s.appCtx.Logger.Debug("Search result", "viewer", viewerID, "count", len(profiles))
	return toProfiles(profiles), nil
}

// Suggest returns the ranked suggestion feed for the viewer.
//
// Example:
//
//	svc.Suggest(ctx, &pb.SuggestRequest{ViewerUserId: "1"})
func (s *Service) Suggest(ctx context.Context, req *pb.SuggestRequest) (*pb.ProfilesResponse, error) {
	s.appCtx.Logger.Debug("Suggest called", "viewer", req.ViewerUserId)

	viewerID, err := parseID("viewer_user_id", req.ViewerUserId)
	if err != nil {
		return nil, err
	}

	profiles, err := s.appCtx.Discovery.Suggest(ctx, viewerID)
	if err != nil {
		return nil, s.fail("Suggest", err)
	}
	return toProfiles(profiles), nil
}

// SetLike turns a like on or off and reports whether the pair is connected.
//
// Behavior:
//   - Self-likes, users without pictures and missing or inactive targets are
//     FailedPrecondition.
//   - Repeating the current state is a successful no-op (changed = false).
//   - Aborted when another toggle on the same pair holds the lock too long.
//
// Example:
//
//	svc.SetLike(ctx, &pb.ToggleRequest{ActorUserId: "1", TargetUserId: "2", Active: true})
func (s *Service) SetLike(ctx context.Context, req *pb.ToggleRequest) (*pb.SetLikeResponse, error) {
	s.appCtx.Logger.Debug("SetLike called", "actor", req.ActorUserId, "target", req.TargetUserId, "active", req.Active)

	actorID, targetID, err := parsePair("actor_user_id", req.ActorUserId, "target_user_id", req.TargetUserId)
	if err != nil {
		return nil, err
	}

	res, err := s.appCtx.Relationships.SetLike(ctx, actorID, targetID, req.Active)
	if err != nil {
		return nil, s.fail("SetLike", err)
	}
	return &pb.SetLikeResponse{Changed: res.Changed, Connected: res.Connected}, nil
}

// SetBlock toggles a block. Blocked users disappear from the actor's discovery.
func (s *Service) SetBlock(ctx context.Context, req *pb.ToggleRequest) (*pb.ToggleResponse, error) {
	s.appCtx.Logger.Debug("SetBlock called", "actor", req.ActorUserId, "target", req.TargetUserId, "active", req.Active)

	actorID, targetID, err := parsePair("actor_user_id", req.ActorUserId, "target_user_id", req.TargetUserId)
	if err != nil {
		return nil, err
	}

	changed, err := s.appCtx.Relationships.SetBlock(ctx, actorID, targetID, req.Active)
	if err != nil {
		return nil, s.fail("SetBlock", err)
	}
	return &pb.ToggleResponse{Changed: changed}, nil
}

// SetFake toggles a fake-profile report.
func (s *Service) SetFake(ctx context.Context, req *pb.ToggleRequest) (*pb.ToggleResponse, error) {
	s.appCtx.Logger.Debug("SetFake called", "actor", req.ActorUserId, "target", req.TargetUserId, "active", req.Active)

	actorID, targetID, err := parsePair("actor_user_id", req.ActorUserId, "target_user_id", req.TargetUserId)
	if err != nil {
		return nil, err
	}

	changed, err := s.appCtx.Relationships.SetFake(ctx, actorID, targetID, req.Active)
	if err != nil {
		return nil, s.fail("SetFake", err)
	}
	return &pb.ToggleResponse{Changed: changed}, nil
}

// ViewProfile records the view and returns the decorated target profile
// with the relation flags between viewer and target.
//
// Example:
//
//	svc.ViewProfile(ctx, &pb.ViewProfileRequest{ViewerUserId: "1", TargetUserId: "2"})
func (s *Service) ViewProfile(ctx context.Context, req *pb.ViewProfileRequest) (*pb.ViewProfileResponse, error) {
	s.appCtx.Logger.Debug("ViewProfile called", "viewer", req.ViewerUserId, "target", req.TargetUserId)

	viewerID, targetID, err := parsePair("viewer_user_id", req.ViewerUserId, "target_user_id", req.TargetUserId)
	if err != nil {
		return nil, err
	}

	first, err := s.appCtx.Relationships.View(ctx, viewerID, targetID)
	if err != nil {
		return nil, s.fail("ViewProfile", err)
	}

	view, err := s.appCtx.Discovery.ProfileOf(ctx, viewerID, targetID)
	if err != nil {
		return nil, s.fail("ViewProfile", err)
	}

	return &pb.ViewProfileResponse{
		Profile:     toProfile(view.Profile),
		FirstName:   view.FirstName,
		LastName:    view.LastName,
		Bio:         view.Bio,
		Gender:      string(view.Gender),
		Orientation: string(view.Orientation),
		LikedByMe:   view.LikedByMe,
		LikesMe:     view.LikesMe,
		Connected:   view.Connected,
		BlockedByMe: view.BlockedByMe,
		FirstView:   first,
	}, nil
}

// ListLikedYou returns all users who currently like the recipient, newest first.
//
// Example:
//
//	svc.ListLikedYou(ctx, &pb.ListLikedYouRequest{RecipientUserId: "42"})
func (s *Service) ListLikedYou(ctx context.Context, req *pb.ListLikedYouRequest) (*pb.ListLikedYouResponse, error) {
	s.appCtx.Logger.Debug("ListLikedYou called", "recipient", req.RecipientUserId)

	recipientID, err := parseID("recipient_user_id", req.RecipientUserId)
	if err != nil {
		s.appCtx.Logger.Error("Invalid recipient_user_id", "value", req.RecipientUserId, "err", err)
		return nil, err
	}

	likes, err := s.appCtx.Relationships.Likers(ctx, recipientID)
	if err != nil {
		return nil, s.fail("ListLikedYou", err)
	}

	resp := &pb.ListLikedYouResponse{Likers: make([]*pb.ListLikedYouResponse_Liker, 0, len(likes))}
	for _, l := range likes {
		resp.Likers = append(resp.Likers, &pb.ListLikedYouResponse_Liker{
			ActorId:       strconv.FormatUint(l.LikerID, 10),
			UnixTimestamp: uint64(l.UpdatedAt.UnixMilli()),
		})
	}

	s.appCtx.Logger.Debug("ListLikedYou result", "liker_count", len(resp.Likers))
	return resp, nil
}

// GetFameRating returns the user's stars and liked count.
func (s *Service) GetFameRating(ctx context.Context, req *pb.GetFameRatingRequest) (*pb.FameRatingResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}

	rating, err := s.appCtx.Relationships.Fame(ctx, userID)
	if err != nil {
		return nil, s.fail("GetFameRating", err)
	}
	return &pb.FameRatingResponse{Stars: rating.Stars, LikedCount: rating.LikedCount}, nil
}

// UpdateLocation stores the user's current position.
func (s *Service) UpdateLocation(ctx context.Context, req *pb.UpdateLocationRequest) (*pb.Empty, error) {
	s.appCtx.Logger.Debug("UpdateLocation called", "user", req.UserId)

	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	if err := discovery.ValidateLocation(req.Latitude, req.Longitude); err != nil {
		return nil, s.fail("UpdateLocation", err)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, s.fail("UpdateLocation", err)
	}

	lat, lon := req.Latitude, req.Longitude
	loc := &db.Location{
		UserID:       userID,
		Latitude:     &lat,
		Longitude:    &lon,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		Country:      req.Country,
	}
	if err := s.appCtx.Profiles.UpsertLocation(ctx, loc); err != nil {
		return nil, s.fail("UpdateLocation", err)
	}
	return &pb.Empty{}, nil
}

// SetInterests replaces the user's tags; every tag must be in the vocabulary.
func (s *Service) SetInterests(ctx context.Context, req *pb.SetInterestsRequest) (*pb.Empty, error) {
	s.appCtx.Logger.Debug("SetInterests called", "user", req.UserId, "count", len(req.Interests))

	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}
	if err := discovery.ValidateInterests(req.Interests); err != nil {
		return nil, s.fail("SetInterests", err)
	}
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, s.fail("SetInterests", err)
	}

	if err := s.appCtx.Profiles.SetInterests(ctx, userID, req.Interests); err != nil {
		return nil, s.fail("SetInterests", err)
	}
	return &pb.Empty{}, nil
}

// NotifyMessage records a new_message event for the recipient of a chat message.
func (s *Service) NotifyMessage(ctx context.Context, req *pb.NotifyMessageRequest) (*pb.NotifyMessageResponse, error) {
	senderID, recipientID, err := parsePair("sender_user_id", req.SenderUserId, "recipient_user_id", req.RecipientUserId)
	if err != nil {
		return nil, err
	}

	deduped, err := s.appCtx.Relationships.NotifyMessage(ctx, senderID, recipientID)
	if err != nil {
		return nil, s.fail("NotifyMessage", err)
	}
	return &pb.NotifyMessageResponse{Deduplicated: deduped}, nil
}

// PollEvents hands out the user's undelivered events and marks them delivered.
func (s *Service) PollEvents(ctx context.Context, req *pb.PollEventsRequest) (*pb.PollEventsResponse, error) {
	userID, err := parseID("user_id", req.UserId)
	if err != nil {
		return nil, err
	}

	events, err := s.appCtx.Relationships.PollEvents(ctx, userID)
	if err != nil {
		return nil, s.fail("PollEvents", err)
	}

	resp := &pb.PollEventsResponse{Events: make([]*pb.Event, 0, len(events))}
	for _, ev := range events {
		resp.Events = append(resp.Events, &pb.Event{
			Id:            strconv.FormatUint(ev.ID, 10),
			ActorId:       strconv.FormatUint(ev.ActorID, 10),
			Type:          string(ev.Type),
			UnixTimestamp: uint64(ev.UpdatedAt.UnixMilli()),
		})
	}
	return resp, nil
}

func (s *Service) requireUser(ctx context.Context, userID uint64) error {
	_, err := s.appCtx.Profiles.GetUserByID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return svcErr.NotFoundf("user %d not found", userID)
	}
	return err
}
