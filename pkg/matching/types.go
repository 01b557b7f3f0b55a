// Package matching holds the candidate-search core: search parameter
// derivation, raw-result filtering, photo ranking and the orchestration
// service. Everything here is independent of gin and the database; the VK
// client and the interaction store are consumed through narrow interfaces.
package matching

import (
	"context"
	"errors"
)

// Sex uses the VK wire encoding: 0 unknown, 1 female, 2 male.
type Sex int

const (
	SexUnknown Sex = 0
	SexFemale  Sex = 1
	SexMale    Sex = 2
)

// Profile is a synced user as seen by the search pipeline.
type Profile struct {
	ID        int64
	FirstName string
	LastName  string
	Age       *int
	City      string
	Country   string
	Sex       Sex
}

// RawCandidate is one unfiltered users.search result item.
type RawCandidate struct {
	ID          int64
	FirstName   string
	LastName    string
	BirthDate   string // "d.m.yyyy" or "d.m", may be empty
	City        string
	Country     string
	Sex         Sex
	PhotoURL    string // photo_100
	Deactivated string // "banned", "deleted" or empty
}

// Candidate is a normalized, filtered search result.
type Candidate struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Age       *int   `json:"age,omitempty"`
	City      string `json:"city"`
	Sex       Sex    `json:"sex"`
}

// RawPhoto is one photos.get item before ranking.
type RawPhoto struct {
	ID       int64
	OwnerID  int64
	URL      string
	Likes    int
	Comments int
}

// RankedPhoto carries the engagement score (likes + comments) it was ordered by.
type RankedPhoto struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	URL     string `json:"url"`
	Score   int    `json:"score"`
}

// SearchParams is the derived users.search query. Zero values mean "omit the
// filter": Sex == SexUnknown searches both, CityID == 0 leaves only the
// country scope in effect.
type SearchParams struct {
	Count     int
	Fields    string
	HasPhoto  bool
	Sort      int
	CountryID int64
	Sex       Sex
	AgeFrom   int
	AgeTo     int
	CityID    int64
}

var (
	// ErrNotFound means the requested profile does not exist upstream.
	ErrNotFound = errors.New("profile not found")
	// ErrPrivacyRestricted maps VK API error 30 (private profile).
	ErrPrivacyRestricted = errors.New("profile is private")
)

// Client is the narrow surface of the social-network API the core depends on.
type Client interface {
	FetchProfile(ctx context.Context, id int64) (Profile, error)
	SearchProfiles(ctx context.Context, params SearchParams) ([]RawCandidate, error)
	FetchPhotos(ctx context.Context, ownerID int64) ([]RawPhoto, error)
}

// ExclusionSource exposes the interaction state the service filters against.
// Implementations degrade to empty slices on storage failure.
type ExclusionSource interface {
	ListBlacklist(ctx context.Context, userID int64) []int64
	ListViewed(ctx context.Context, userID int64) []int64
}
