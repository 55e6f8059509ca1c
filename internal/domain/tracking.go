package domain

// TrackingEntry is one attributed order event. Several entries may share an
// (influencer_id, campaign) pair; each is a distinct order and is summed.
type TrackingEntry struct {
	Source       string       `json:"source" db:"source"`
	Campaign     string       `json:"campaign" db:"campaign"`           // <Brand>_<Product>_<N>
	InfluencerID InfluencerID `json:"influencer_id" db:"influencer_id"`
	UserID       string       `json:"user_id,omitempty" db:"user_id"`
	Product      string       `json:"product" db:"product"`
	Date         string       `json:"date" db:"date"`
	Orders       int64        `json:"orders" db:"orders"`
	Revenue      float64      `json:"revenue" db:"revenue"`
}
