package db

import (
	"time"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Orientation string

const (
	OrientationMale     Orientation = "male"
	OrientationFemale   Orientation = "female"
	OrientationBisexual Orientation = "bi-sexual"
)

type Status string

const (
	StatusNew       Status = "new"
	StatusActivated Status = "activated"
)

type EventType string

const (
	EventLikedMe      EventType = "liked_me"
	EventViewedMe     EventType = "viewed_me"
	EventConnected    EventType = "connected"
	EventDisconnected EventType = "disconnected"
	EventNewMessage   EventType = "new_message"
)

type EventStatus string

const (
	EventStatusNew       EventStatus = "new"
	EventStatusDelivered EventStatus = "delivered"
)

// Interests is the closed tag vocabulary a profile can pick from.
var Interests = []string{
	"#art", "#cooking", "#dance", "#gaming", "#geek", "#jog", "#movies", "#music",
	"#nature", "#photography", "#piercing", "#reading", "#sport", "#travel", "#vegan", "#yoga",
}

var interestSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(Interests))
	for _, tag := range Interests {
		m[tag] = struct{}{}
	}
	return m
}()

// IsInterest reports whether tag belongs to the vocabulary.
func IsInterest(tag string) bool {
	_, ok := interestSet[tag]
	return ok
}

// User table
type User struct {
	ID           uint64      `gorm:"primaryKey;autoIncrement"`
	Username     string      `gorm:"uniqueIndex;size:64;not null"`
	Email        string      `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string      `gorm:"size:255;not null"`
	FirstName    string      `gorm:"size:64"`
	LastName     string      `gorm:"size:64"`
	Bio          string      `gorm:"size:1024"`
	Gender       Gender      `gorm:"size:16;not null;index:idx_users_status_gender_orientation,priority:2"`
	Orientation  Orientation `gorm:"size:16;not null;default:bi-sexual;index:idx_users_status_gender_orientation,priority:3"`
	DateOfBirth  time.Time   `gorm:"not null;index"`
	Status       Status      `gorm:"size:16;not null;default:new;index:idx_users_status_gender_orientation,priority:1"`
	CreatedAt    time.Time   `gorm:"autoCreateTime"`
	UpdatedAt    time.Time   `gorm:"autoUpdateTime"`
}

// Location is the single stored position of a user.
// Coordinates stay NULL until the first location update.
type Location struct {
	UserID       uint64    `gorm:"primaryKey;autoIncrement:false"`
	Latitude     *float64  `gorm:"index:idx_locations_lat_lon,priority:1"`
	Longitude    *float64  `gorm:"index:idx_locations_lat_lon,priority:2"`
	Neighborhood string    `gorm:"size:128"`
	City         string    `gorm:"size:128"`
	Country      string    `gorm:"size:128"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// HasCoordinates reports whether both coordinates are set.
func (l *Location) HasCoordinates() bool {
	return l != nil && l.Latitude != nil && l.Longitude != nil
}

// Interest is one vocabulary tag held by a user.
//
// Composite PK: (UserID, Tag), so a user holds a tag at most once.
// idx_interests_tag serves the "holds every requested tag" search.
type Interest struct {
	UserID    uint64    `gorm:"primaryKey;autoIncrement:false"`
	Tag       string    `gorm:"primaryKey;size:32;index:idx_interests_tag"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Picture references an uploaded image. Storage itself lives elsewhere.
type Picture struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;index"`
	Path      string    `gorm:"size:255;not null"`
	IsProfile bool      `gorm:"not null;default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// FameRating mirrors the number of LikedHistory rows pointing at a user.
// It is only ever adjusted by the like toggle.
type FameRating struct {
	UserID     uint64    `gorm:"primaryKey;autoIncrement:false"`
	LikedCount int64     `gorm:"not null;default:0;index"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// LikedHistory is a directed like edge. Both directions present = a match.
//
// Composite PK: (LikerID, LikedID)
//   - At most one row per ordered pair.
//
// Indexes:
//   - idx_liked_history_liked(liked_id, updated_at)
//     Serves "who liked me" lists and the reverse-edge lookup.
type LikedHistory struct {
	LikerID   uint64    `gorm:"primaryKey;autoIncrement:false"`
	LikedID   uint64    `gorm:"primaryKey;autoIncrement:false;index:idx_liked_history_liked,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;index:idx_liked_history_liked,priority:2,sort:desc"`
}

func (LikedHistory) TableName() string { return "liked_history" }

// ViewedHistory records that viewer opened viewed's profile at least once.
// Rows are never deleted; UpdatedAt advances on each repeat view.
type ViewedHistory struct {
	ViewerID  uint64    `gorm:"primaryKey;autoIncrement:false"`
	ViewedID  uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ViewedHistory) TableName() string { return "viewed_history" }

type BlockedHistory struct {
	BlockerID uint64    `gorm:"primaryKey;autoIncrement:false"`
	BlockedID uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (BlockedHistory) TableName() string { return "blocked_history" }

type FakedHistory struct {
	ReporterID uint64    `gorm:"primaryKey;autoIncrement:false"`
	ReportedID uint64    `gorm:"primaryKey;autoIncrement:false;index"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

func (FakedHistory) TableName() string { return "faked_history" }

// Event is a notification for RecipientID about something ActorID did.
// The poller flips Status to delivered once it hands the event out.
//
// Indexes:
//   - idx_events_recipient_status(recipient_id, status, type, actor_id)
//     Serves polling and the undelivered new_message dedup lookup.
type Event struct {
	ID          uint64      `gorm:"primaryKey;autoIncrement"`
	RecipientID uint64      `gorm:"not null;index:idx_events_recipient_status,priority:1"`
	ActorID     uint64      `gorm:"not null;index:idx_events_recipient_status,priority:4"`
	Type        EventType   `gorm:"size:16;not null;index:idx_events_recipient_status,priority:3"`
	Status      EventStatus `gorm:"size:16;not null;default:new;index:idx_events_recipient_status,priority:2"`
	CreatedAt   time.Time   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time   `gorm:"autoUpdateTime"`
}

// Models lists every table for AutoMigrate.
func Models() []any {
	return []any{
		&User{}, &Location{}, &Interest{}, &Picture{}, &FameRating{},
		&LikedHistory{}, &ViewedHistory{}, &BlockedHistory{}, &FakedHistory{}, &Event{},
	}
}
