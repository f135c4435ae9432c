// Package matcha holds the wire messages and service descriptor of
// matcha.MatchaService. Messages are plain structs carried by the JSON codec.
package matcha

// Criteria is the optional search filter set. Ranges come as min/max pairs.
type Criteria struct {
	MinDistanceKm *float64 `json:"min_distance_km,omitempty"`
	MaxDistanceKm *float64 `json:"max_distance_km,omitempty"`
	MinAge        *int     `json:"min_age,omitempty"`
	MaxAge        *int     `json:"max_age,omitempty"`
	MinStars      *int     `json:"min_stars,omitempty"`
	MaxStars      *int     `json:"max_stars,omitempty"`
	Interests     []string `json:"interests,omitempty"`
}

type SearchRequest struct {
	ViewerUserId string    `json:"viewer_user_id"`
	Criteria     *Criteria `json:"criteria"`
}

type SuggestRequest struct {
	ViewerUserId string `json:"viewer_user_id"`
}

// Profile is a decorated discovery result.
type Profile struct {
	UserId          string   `json:"user_id"`
	Username        string   `json:"username"`
	Age             int      `json:"age"`
	DistanceKm      *float64 `json:"distance_km,omitempty"`
	Interests       []string `json:"interests"`
	FameStars       int      `json:"fame_stars"`
	LikedCount      int64    `json:"liked_count"`
	ProfilePicture  string   `json:"profile_picture,omitempty"`
	SharedInterests int      `json:"shared_interests,omitempty"`
}

type ProfilesResponse struct {
	Profiles []*Profile `json:"profiles"`
}

// ToggleRequest turns a directed relation actor -> target on or off.
type ToggleRequest struct {
	ActorUserId  string `json:"actor_user_id"`
	TargetUserId string `json:"target_user_id"`
	Active       bool   `json:"active"`
}

type SetLikeResponse struct {
	Changed   bool `json:"changed"`
	Connected bool `json:"connected"`
}

type ToggleResponse struct {
	Changed bool `json:"changed"`
}

type ViewProfileRequest struct {
	ViewerUserId string `json:"viewer_user_id"`
	TargetUserId string `json:"target_user_id"`
}

type ViewProfileResponse struct {
	Profile     *Profile `json:"profile"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Bio         string   `json:"bio"`
	Gender      string   `json:"gender"`
	Orientation string   `json:"orientation"`
	LikedByMe   bool     `json:"liked_by_me"`
	LikesMe     bool     `json:"likes_me"`
	Connected   bool     `json:"connected"`
	BlockedByMe bool     `json:"blocked_by_me"`
	FirstView   bool     `json:"first_view"`
}

type ListLikedYouRequest struct {
	RecipientUserId string `json:"recipient_user_id"`
}

type ListLikedYouResponse_Liker struct {
	ActorId       string `json:"actor_id"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

type ListLikedYouResponse struct {
	Likers []*ListLikedYouResponse_Liker `json:"likers"`
}

type GetFameRatingRequest struct {
	UserId string `json:"user_id"`
}

type FameRatingResponse struct {
	Stars      int   `json:"stars"`
	LikedCount int64 `json:"liked_count"`
}

type UpdateLocationRequest struct {
	UserId       string  `json:"user_id"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Neighborhood string  `json:"neighborhood,omitempty"`
	City         string  `json:"city,omitempty"`
	Country      string  `json:"country,omitempty"`
}

type SetInterestsRequest struct {
	UserId    string   `json:"user_id"`
	Interests []string `json:"interests"`
}

type NotifyMessageRequest struct {
	SenderUserId    string `json:"sender_user_id"`
	RecipientUserId string `json:"recipient_user_id"`
}

type NotifyMessageResponse struct {
	Deduplicated bool `json:"deduplicated"`
}

type PollEventsRequest struct {
	UserId string `json:"user_id"`
}

type Event struct {
	Id            string `json:"id"`
	ActorId       string `json:"actor_id"`
	Type          string `json:"type"`
	UnixTimestamp uint64 `json:"unix_timestamp"`
}

type PollEventsResponse struct {
	Events []*Event `json:"events"`
}

type Empty struct{}
