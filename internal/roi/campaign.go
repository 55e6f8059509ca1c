package roi

import (
	"sort"

	"github.com/ignite/influencer-roi/internal/domain"
)

// CampaignFilter restricts the campaign performance view. A nil slice means
// every distinct value present in the snapshot; an empty non-nil slice
// selects nothing.
type CampaignFilter struct {
	Brands    []string `json:"brands,omitempty"`
	Products  []string `json:"products,omitempty"`
	Platforms []string `json:"platforms,omitempty"`
}

// FilterOptions lists the selectable filter values of a snapshot.
type FilterOptions struct {
	Brands    []string `json:"brands"`
	Products  []string `json:"products"`
	Platforms []string `json:"platforms"`
}

// CampaignRow is one (campaign, brand, product) group.
type CampaignRow struct {
	Campaign    string   `json:"campaign"`
	Brand       string   `json:"brand"`
	Product     string   `json:"product"`
	Revenue     float64  `json:"revenue"`
	Orders      int64    `json:"orders"`
	Influencers int      `json:"influencers"`
	TotalPayout *float64 `json:"total_payout"` // nil when the campaign has no payout row
	ROAS        float64  `json:"ROAS"`
}

type campaignKey struct {
	campaign string
	brand    string
	product  string
}

type campaignAgg struct {
	revenue     float64
	orders      int64
	influencers map[domain.InfluencerID]struct{}
}

// Options returns the sorted distinct brands and products of the tracking
// table and platforms of the roster. Missing values are left out.
func Options(ds *domain.Dataset) FilterOptions {
	brands := map[string]struct{}{}
	products := map[string]struct{}{}
	platforms := map[string]struct{}{}
	for _, e := range BrandTracking(ds.Tracking) {
		if e.HasBrand {
			brands[e.Brand] = struct{}{}
		}
		if e.Product != "" {
			products[e.Product] = struct{}{}
		}
	}
	for _, inf := range ds.Influencers {
		if inf.Platform != "" {
			platforms[inf.Platform] = struct{}{}
		}
	}
	return FilterOptions{
		Brands:    sortedKeys(brands),
		Products:  sortedKeys(products),
		Platforms: sortedKeys(platforms),
	}
}

// CampaignPerformance aggregates tracked revenue and orders per campaign,
// brand and product, joins the campaign's total payout and computes ROAS.
// Rows are ordered by campaign, brand, product.
func CampaignPerformance(ds *domain.Dataset, f CampaignFilter) []CampaignRow {
	defaults := Options(ds)
	brands := selection(f.Brands, defaults.Brands)
	products := selection(f.Products, defaults.Products)
	platforms := selection(f.Platforms, defaults.Platforms)

	platformOf := platformLookup(ds.Influencers)

	groups := make(map[campaignKey]*campaignAgg)
	for _, e := range BrandTracking(ds.Tracking) {
		if !e.HasBrand || !brands.has(e.Brand) {
			continue
		}
		if e.Product == "" || !products.has(e.Product) {
			continue
		}
		platform, ok := platformOf[e.InfluencerID]
		if !ok || platform == "" || !platforms.has(platform) {
			continue
		}

		key := campaignKey{campaign: e.Campaign, brand: e.Brand, product: e.Product}
		agg, ok := groups[key]
		if !ok {
			agg = &campaignAgg{influencers: make(map[domain.InfluencerID]struct{})}
			groups[key] = agg
		}
		agg.revenue += amount(e.Revenue)
		agg.orders += count(e.Orders)
		if !e.InfluencerID.Missing() {
			agg.influencers[e.InfluencerID] = struct{}{}
		}
	}

	payoutByCampaign := make(map[string]float64)
	for _, p := range ds.Payouts {
		if p.Campaign == "" {
			continue
		}
		payoutByCampaign[p.Campaign] += amount(p.TotalPayout)
	}

	rows := make([]CampaignRow, 0, len(groups))
	for key, agg := range groups {
		row := CampaignRow{
			Campaign:    key.campaign,
			Brand:       key.brand,
			Product:     key.product,
			Revenue:     agg.revenue,
			Orders:      agg.orders,
			Influencers: len(agg.influencers),
		}
		if total, ok := payoutByCampaign[key.campaign]; ok {
			row.TotalPayout = ptr(total)
		}
		row.ROAS = ROAS(&row.Revenue, row.TotalPayout)
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Campaign != b.Campaign {
			return a.Campaign < b.Campaign
		}
		if a.Brand != b.Brand {
			return a.Brand < b.Brand
		}
		return a.Product < b.Product
	})
	return rows
}

// platformLookup maps roster ids to platforms. On duplicate ids the last
// roster row wins.
func platformLookup(influencers []domain.Influencer) map[domain.InfluencerID]string {
	m := make(map[domain.InfluencerID]string, len(influencers))
	for _, inf := range influencers {
		if inf.ID.Missing() {
			continue
		}
		m[inf.ID] = inf.Platform
	}
	return m
}

type stringSet map[string]struct{}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func selection(chosen, defaults []string) stringSet {
	src := chosen
	if chosen == nil {
		src = defaults
	}
	s := make(stringSet, len(src))
	for _, v := range src {
		s[v] = struct{}{}
	}
	return s
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
