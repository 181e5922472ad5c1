// Package profile defines the common types for profile authenticity scoring.
package profile

import (
	"errors"
	"time"
)

// Errors returned by fetchers and the scoring engine.
var (
	// ErrProfileNotFound indicates the requested account does not exist.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrInvalidProfile indicates a snapshot that violates preconditions
	// (e.g. empty username).
	ErrInvalidProfile = errors.New("invalid profile")
	// ErrNetworkFailure indicates a collaborator fetch failed.
	ErrNetworkFailure = errors.New("network failure")
	// ErrImageDecode indicates image bytes could not be decoded.
	ErrImageDecode = errors.New("image decode failure")
	// ErrSchemaMismatch indicates a feature vector that does not match the
	// loaded artifact's fitted schema. This is a deployment problem, not a
	// bad-input problem.
	ErrSchemaMismatch = errors.New("feature schema mismatch")
	// ErrInference indicates the classifier produced an unusable result.
	ErrInference = errors.New("model inference failure")
	// ErrAuthRequired indicates the platform needs session cookies.
	ErrAuthRequired = errors.New("authentication required")
	// ErrNoCookies indicates no cookie source produced credentials.
	ErrNoCookies = errors.New("no cookies available")
)

// Snapshot holds the raw attributes of an API-sourced (structured) profile.
// It is created per request and discarded after scoring.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Snapshot struct {
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	Biography   string `json:"biography"`
	ExternalURL string `json:"external_url,omitempty"`
	IsPrivate   bool   `json:"is_private"`
	MediaCount  int    `json:"num_posts"`
	Followers   int    `json:"num_followers"`
	Followees   int    `json:"num_follows"`

	// ProfilePicURL points at the avatar; ProfilePic carries the downloaded
	// bytes when the fetcher already has them in hand.
	ProfilePicURL string `json:"profile_pic_url,omitempty"`
	ProfilePic    []byte `json:"-"`
}

// MirrorSnapshot holds fields scraped from a mirror's profile page.
// Every field except ScreenName is optional: the mirror's HTML may omit any
// of them, and absence must be representable without panicking downstream.
//
//nolint:govet // fieldalignment: intentional layout for readability
type MirrorSnapshot struct {
	ScreenName  string  `json:"screen_name"`
	Name        string  `json:"name,omitempty"`
	Location    string  `json:"location,omitempty"`
	Website     string  `json:"url,omitempty"`
	Verified    bool    `json:"verified"`
	Description *string `json:"description"`

	FollowersCount *int `json:"followers_count"`
	FriendsCount   *int `json:"friends_count"`
	StatusesCount  *int `json:"statuses_count"`
	FavoritesCount *int `json:"favorites_count"`

	CreatedAt *time.Time `json:"created_at"`

	DefaultProfileImage bool   `json:"default_profile_image"`
	AvatarImage         string `json:"avatar_image,omitempty"`
	BannerImage         string `json:"banner_image,omitempty"`

	// RecentPost is the text of the newest post on the page, if any.
	RecentPost *string `json:"status"`
}

// Report is the single output contract both scoring paths converge on.
// FakeProbability is always present and within [0,1]; under partial upstream
// failure it degrades to a neutral value rather than being omitted.
//
//nolint:govet // fieldalignment: intentional layout for readability
type Report struct {
	FakeProbability float64 `json:"fake_probability"`
	IsFake          bool    `json:"is_fake"`
	ProfileInfo     any     `json:"profile_info"`
}

// Neutral is the probability reported when a best-effort estimate is all
// that remains after an internal scorer failure.
const Neutral = 0.5
