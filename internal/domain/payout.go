package domain

// PayoutBasis names how a payout rate is applied.
type PayoutBasis string

// BasisOrder pays Rate per attributed order. Other bases are kept verbatim.
const BasisOrder PayoutBasis = "order"

// Payout is the agreement for one (influencer_id, campaign) pair. The pair
// is treated as unique for joins but nothing enforces it.
type Payout struct {
	InfluencerID InfluencerID `json:"influencer_id" db:"influencer_id"`
	Campaign     string       `json:"campaign" db:"campaign"`
	Basis        PayoutBasis  `json:"basis" db:"basis"`
	Rate         float64      `json:"rate" db:"rate"`
	Orders       int64        `json:"orders" db:"orders"`
	TotalPayout  float64      `json:"total_payout" db:"total_payout"`
}
