package roi

import (
	"testing"

	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignPerformance_Example(t *testing.T) {
	rows := CampaignPerformance(exampleDataset(), CampaignFilter{})
	require.Len(t, rows, 2)

	herbal := rows[0]
	assert.Equal(t, "Herbalife_Tea_2", herbal.Campaign)
	assert.Equal(t, "Herbalife", herbal.Brand)
	assert.Equal(t, "Herbal Tea", herbal.Product)
	assert.Equal(t, 1500.0, herbal.Revenue)
	assert.Equal(t, int64(1), herbal.Orders)
	assert.Equal(t, 1, herbal.Influencers)
	require.NotNil(t, herbal.TotalPayout)
	assert.Equal(t, 150.0, *herbal.TotalPayout)
	assert.Equal(t, 10.0, herbal.ROAS)

	mb := rows[1]
	assert.Equal(t, "MuscleBlaze_Protein_1", mb.Campaign)
	assert.Equal(t, "MuscleBlaze", mb.Brand)
	assert.Equal(t, 7000.0, mb.Revenue)
	assert.Equal(t, int64(4), mb.Orders)
	assert.Equal(t, 2, mb.Influencers)
	require.NotNil(t, mb.TotalPayout)
	assert.Equal(t, 420.0, *mb.TotalPayout)
	assert.InDelta(t, 16.67, mb.ROAS, 0.01)
}

func TestCampaignPerformance_Filters(t *testing.T) {
	ds := exampleDataset()

	tests := []struct {
		name          string
		filter        CampaignFilter
		wantCampaigns []string
	}{
		{"defaults select everything", CampaignFilter{}, []string{"Herbalife_Tea_2", "MuscleBlaze_Protein_1"}},
		{"brand", CampaignFilter{Brands: []string{"MuscleBlaze"}}, []string{"MuscleBlaze_Protein_1"}},
		{"product", CampaignFilter{Products: []string{"Herbal Tea"}}, []string{"Herbalife_Tea_2"}},
		{"platform", CampaignFilter{Platforms: []string{"YouTube"}}, []string{"Herbalife_Tea_2"}},
		{"platform with no influencers", CampaignFilter{Platforms: []string{"TikTok"}}, []string{}},
		{"empty brand selection", CampaignFilter{Brands: []string{}}, []string{}},
		{"brand filter is case sensitive", CampaignFilter{Brands: []string{"muscleblaze"}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := CampaignPerformance(ds, tt.filter)
			require.NotNil(t, rows)
			got := make([]string, 0, len(rows))
			for _, r := range rows {
				got = append(got, r.Campaign)
			}
			assert.Equal(t, tt.wantCampaigns, got)
		})
	}
}

func TestCampaignPerformance_PlatformFilterKeepsOnlyMatchingInfluencers(t *testing.T) {
	ds := exampleDataset()
	ds.Influencers[2].Platform = "YouTube" // Alex moves off Instagram

	rows := CampaignPerformance(ds, CampaignFilter{Platforms: []string{"Instagram"}})
	require.Len(t, rows, 1)
	assert.Equal(t, 6000.0, rows[0].Revenue)
	assert.Equal(t, 1, rows[0].Influencers)
	// Payouts are joined per campaign, not per filtered influencer.
	assert.Equal(t, 420.0, *rows[0].TotalPayout)
}

func TestCampaignPerformance_MissingData(t *testing.T) {
	ds := exampleDataset()
	ds.Tracking = append(ds.Tracking,
		domain.TrackingEntry{Campaign: "MuscleBlaze_Protein_1", InfluencerID: "99", Product: "Protein Powder", Orders: 5, Revenue: 9999},
		domain.TrackingEntry{Campaign: "", InfluencerID: "1", Product: "Protein Powder", Orders: 1, Revenue: 50},
		domain.TrackingEntry{Campaign: "MuscleBlaze_Protein_1", InfluencerID: "1", Product: "", Orders: 1, Revenue: 50},
		domain.TrackingEntry{Campaign: "MuscleBlaze_Protein_1", InfluencerID: "3", Product: "Protein Powder", Orders: -2, Revenue: -500},
		domain.TrackingEntry{Campaign: "Optimum_Whey_3", InfluencerID: "2", Product: "Whey", Orders: 2, Revenue: 800},
	)

	rows := CampaignPerformance(ds, CampaignFilter{})
	require.Len(t, rows, 3)

	mb := rows[1]
	assert.Equal(t, "MuscleBlaze_Protein_1", mb.Campaign)
	assert.Equal(t, 7000.0, mb.Revenue, "orphans, missing keys and negatives must not change the sum")
	assert.Equal(t, int64(4), mb.Orders)
	assert.Equal(t, 2, mb.Influencers)

	whey := rows[2]
	assert.Equal(t, "Optimum_Whey_3", whey.Campaign)
	assert.Nil(t, whey.TotalPayout)
	assert.Equal(t, 0.0, whey.ROAS)
}

func TestCampaignPerformance_RevenueMatchesFilteredSum(t *testing.T) {
	ds := exampleDataset()
	f := CampaignFilter{Brands: []string{"MuscleBlaze"}, Platforms: []string{"Instagram"}}

	var want float64
	for _, e := range ds.Tracking {
		brand, _ := DeriveBrand(e.Campaign)
		if brand == "MuscleBlaze" && (e.InfluencerID == "1" || e.InfluencerID == "3") {
			want += e.Revenue
		}
	}

	rows := CampaignPerformance(ds, f)
	require.Len(t, rows, 1)
	assert.Equal(t, want, rows[0].Revenue)
	assert.Equal(t, SafeRatio(&rows[0].Revenue, rows[0].TotalPayout), rows[0].ROAS)
}

func TestOptions(t *testing.T) {
	ds := exampleDataset()
	ds.Tracking = append(ds.Tracking, domain.TrackingEntry{Campaign: "", Product: ""})
	ds.Influencers = append(ds.Influencers, domain.Influencer{ID: "4"})

	opts := Options(ds)
	assert.Equal(t, []string{"Herbalife", "MuscleBlaze"}, opts.Brands)
	assert.Equal(t, []string{"Herbal Tea", "Protein Powder"}, opts.Products)
	assert.Equal(t, []string{"Instagram", "YouTube"}, opts.Platforms)
}

func TestCampaignPerformance_EmptyDataset(t *testing.T) {
	rows := CampaignPerformance(&domain.Dataset{}, CampaignFilter{})
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}
