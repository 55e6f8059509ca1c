package domain

import "strings"

// InfluencerID is the stable key of a roster row. Tracking entries and
// payouts reference it but never own it; a reference may be orphaned.
type InfluencerID string

// NewInfluencerID trims surrounding whitespace from a raw key.
func NewInfluencerID(raw string) InfluencerID {
	return InfluencerID(strings.TrimSpace(raw))
}

// Missing reports whether the key is absent.
func (id InfluencerID) Missing() bool { return id == "" }

// Influencer is one roster row.
type Influencer struct {
	ID            InfluencerID `json:"id" db:"id"`
	Name          string       `json:"name" db:"name"`
	Category      string       `json:"category" db:"category"`
	Gender        string       `json:"gender" db:"gender"`
	FollowerCount int64        `json:"follower_count" db:"follower_count"`
	Platform      string       `json:"platform" db:"platform"`
}

// Post is a social post by an influencer. Posts are loaded and previewed
// but no report aggregates them yet.
type Post struct {
	InfluencerID InfluencerID `json:"influencer_id" db:"influencer_id"`
	Platform     string       `json:"platform" db:"platform"`
	Date         string       `json:"date" db:"date"`
	URL          string       `json:"url" db:"url"`
	Caption      string       `json:"caption" db:"caption"`
	Reach        int64        `json:"reach" db:"reach"`
	Likes        int64        `json:"likes" db:"likes"`
	Comments     int64        `json:"comments" db:"comments"`
}
