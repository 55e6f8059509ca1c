package roi

import "github.com/ignite/influencer-roi/internal/domain"

// PayoutRow reconciles one payout agreement with the revenue tracked for the
// same influencer and campaign.
type PayoutRow struct {
	InfluencerID domain.InfluencerID `json:"influencer_id"`
	Name         *string             `json:"name"`          // nil for ids missing from the roster
	Campaign     string              `json:"campaign"`
	Brand        *string             `json:"brand"`
	Basis        domain.PayoutBasis  `json:"basis"`
	Rate         float64             `json:"rate"`
	Orders       int64               `json:"orders"`
	TotalPayout  float64             `json:"total_payout"`
	Revenue      *float64            `json:"revenue"`       // nil when nothing was tracked for the pair
	ROAS         float64             `json:"ROAS"`
}

type payoutKey struct {
	influencer domain.InfluencerID
	campaign   string
}

// PayoutTracking returns one row per payout, in payout order.
func PayoutTracking(ds *domain.Dataset) []PayoutRow {
	names := make(map[domain.InfluencerID]string, len(ds.Influencers))
	for _, inf := range ds.Influencers {
		if inf.ID.Missing() {
			continue
		}
		names[inf.ID] = inf.Name
	}

	revenue := make(map[payoutKey]float64)
	for _, e := range ds.Tracking {
		if e.InfluencerID.Missing() || e.Campaign == "" {
			continue
		}
		revenue[payoutKey{e.InfluencerID, e.Campaign}] += amount(e.Revenue)
	}

	rows := make([]PayoutRow, 0, len(ds.Payouts))
	for _, p := range BrandPayouts(ds.Payouts) {
		row := PayoutRow{
			InfluencerID: p.InfluencerID,
			Campaign:     p.Campaign,
			Basis:        p.Basis,
			Rate:         p.Rate,
			Orders:       p.Orders,
			TotalPayout:  p.TotalPayout,
		}
		if name, ok := names[p.InfluencerID]; ok {
			row.Name = ptr(name)
		}
		if p.HasBrand {
			row.Brand = ptr(p.Brand)
		}
		if rev, ok := revenue[payoutKey{p.InfluencerID, p.Campaign}]; ok {
			row.Revenue = ptr(rev)
		}
		row.ROAS = ROAS(row.Revenue, ptr(amount(p.TotalPayout)))
		rows = append(rows, row)
	}
	return rows
}
