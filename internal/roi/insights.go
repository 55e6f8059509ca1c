package roi

import (
	"sort"

	"github.com/ignite/influencer-roi/internal/domain"
)

const (
	DefaultTopN                  = 10
	DefaultUnderperformThreshold = 1.0
)

// InsightOptions tunes the derived views of InfluencerInsights.
type InsightOptions struct {
	TopN      int     `json:"top_n"`
	Threshold float64 `json:"underperform_threshold"` // ROAS strictly below this underperforms
}

// DefaultInsightOptions returns top 10 and ROAS < 1.
func DefaultInsightOptions() InsightOptions {
	return InsightOptions{TopN: DefaultTopN, Threshold: DefaultUnderperformThreshold}
}

func (o InsightOptions) normalized() InsightOptions {
	if o.TopN <= 0 {
		o.TopN = DefaultTopN
	}
	if o.Threshold <= 0 {
		o.Threshold = DefaultUnderperformThreshold
	}
	return o
}

// InsightRow is a roster row joined with its tracking and payout totals.
// Totals are nil when the influencer has no rows in that table.
type InsightRow struct {
	ID            domain.InfluencerID `json:"id"`
	Name          string              `json:"name"`
	Category      string              `json:"category"`
	Gender        string              `json:"gender"`
	Platform      string              `json:"platform"`
	FollowerCount int64               `json:"follower_count"`
	TotalRevenue  *float64            `json:"total_revenue"`
	TotalOrders   *int64              `json:"total_orders"`
	TotalPayout   *float64            `json:"total_payout"`
	ROAS          float64             `json:"ROAS"`
}

// RankedInfluencer is the {name, ROAS} projection used by the ranked and
// underperformer views.
type RankedInfluencer struct {
	Name string  `json:"name"`
	ROAS float64 `json:"ROAS"`
}

// Persona is a (category, gender) roll-up.
type Persona struct {
	Category     string  `json:"category"`
	Gender       string  `json:"gender"`
	AvgROAS      float64 `json:"avg_roas"`
	TotalRevenue float64 `json:"total_revenue"`
}

// Insights holds the joined table and the three views derived from it.
type Insights struct {
	Rows            []InsightRow       `json:"rows"`
	Top             []RankedInfluencer `json:"top"`
	Personas        []Persona          `json:"personas"`
	Underperformers []RankedInfluencer `json:"underperformers"`
}

type influencerTotals struct {
	revenue float64
	orders  int64
}

// InfluencerInsights joins every roster row with its summed tracking
// revenue/orders and payouts, then derives the ranked list, persona
// roll-up and underperformers from that one table.
func InfluencerInsights(ds *domain.Dataset, opts InsightOptions) *Insights {
	opts = opts.normalized()

	tracked := make(map[domain.InfluencerID]*influencerTotals)
	for _, e := range ds.Tracking {
		if e.InfluencerID.Missing() {
			continue
		}
		t, ok := tracked[e.InfluencerID]
		if !ok {
			t = &influencerTotals{}
			tracked[e.InfluencerID] = t
		}
		t.revenue += amount(e.Revenue)
		t.orders += count(e.Orders)
	}

	paid := make(map[domain.InfluencerID]float64)
	for _, p := range ds.Payouts {
		if p.InfluencerID.Missing() {
			continue
		}
		paid[p.InfluencerID] += amount(p.TotalPayout)
	}

	rows := make([]InsightRow, 0, len(ds.Influencers))
	for _, inf := range ds.Influencers {
		row := InsightRow{
			ID:            inf.ID,
			Name:          inf.Name,
			Category:      inf.Category,
			Gender:        inf.Gender,
			Platform:      inf.Platform,
			FollowerCount: count(inf.FollowerCount),
		}
		if t, ok := tracked[inf.ID]; ok {
			row.TotalRevenue = ptr(t.revenue)
			row.TotalOrders = ptr(t.orders)
		}
		if total, ok := paid[inf.ID]; ok {
			row.TotalPayout = ptr(total)
		}
		row.ROAS = ROAS(row.TotalRevenue, row.TotalPayout)
		rows = append(rows, row)
	}

	return &Insights{
		Rows:            rows,
		Top:             topByROAS(rows, opts.TopN),
		Personas:        personas(rows),
		Underperformers: underperformers(rows, opts.Threshold),
	}
}

// topByROAS ranks by ROAS descending; ties keep roster order.
func topByROAS(rows []InsightRow, n int) []RankedInfluencer {
	ranked := make([]RankedInfluencer, len(rows))
	for i, r := range rows {
		ranked[i] = RankedInfluencer{Name: r.Name, ROAS: r.ROAS}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].ROAS > ranked[j].ROAS })
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// personas groups by (category, gender); rows missing either key are left
// out of the roll-up.
func personas(rows []InsightRow) []Persona {
	type key struct{ category, gender string }
	type acc struct {
		roasSum float64
		n       int
		revenue float64
	}
	groups := make(map[key]*acc)
	for _, r := range rows {
		if r.Category == "" || r.Gender == "" {
			continue
		}
		k := key{r.Category, r.Gender}
		a, ok := groups[k]
		if !ok {
			a = &acc{}
			groups[k] = a
		}
		a.roasSum += r.ROAS
		a.n++
		if r.TotalRevenue != nil {
			a.revenue += *r.TotalRevenue
		}
	}

	out := make([]Persona, 0, len(groups))
	for k, a := range groups {
		out = append(out, Persona{
			Category:     k.category,
			Gender:       k.gender,
			AvgROAS:      SafeDivide(a.roasSum, float64(a.n)),
			TotalRevenue: a.revenue,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Gender < out[j].Gender
	})
	sort.SliceStable(out, func(i, j int) bool { return out[i].AvgROAS > out[j].AvgROAS })
	return out
}

func underperformers(rows []InsightRow, threshold float64) []RankedInfluencer {
	out := make([]RankedInfluencer, 0)
	for _, r := range rows {
		if r.ROAS < threshold {
			out = append(out, RankedInfluencer{Name: r.Name, ROAS: r.ROAS})
		}
	}
	return out
}
