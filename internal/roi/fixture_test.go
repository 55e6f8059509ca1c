package roi

import "github.com/ignite/influencer-roi/internal/domain"

// exampleDataset mirrors the built-in example set.
func exampleDataset() *domain.Dataset {
	return &domain.Dataset{
		Version: "test",
		Influencers: []domain.Influencer{
			{ID: "1", Name: "John Doe", Category: "Fitness", Gender: "Male", FollowerCount: 100000, Platform: "Instagram"},
			{ID: "2", Name: "Jane Smith", Category: "Wellness", Gender: "Female", FollowerCount: 80000, Platform: "YouTube"},
			{ID: "3", Name: "Alex Lee", Category: "Nutrition", Gender: "Non-binary", FollowerCount: 50000, Platform: "Instagram"},
		},
		Tracking: []domain.TrackingEntry{
			{Source: "influencer", Campaign: "MuscleBlaze_Protein_1", InfluencerID: "1", UserID: "user1", Product: "Protein Powder", Date: "2023-07-02", Orders: 1, Revenue: 2000},
			{Source: "influencer", Campaign: "MuscleBlaze_Protein_1", InfluencerID: "1", UserID: "user2", Product: "Protein Powder", Date: "2023-07-03", Orders: 2, Revenue: 4000},
			{Source: "influencer", Campaign: "Herbalife_Tea_2", InfluencerID: "2", UserID: "user3", Product: "Herbal Tea", Date: "2023-07-04", Orders: 1, Revenue: 1500},
			{Source: "influencer", Campaign: "MuscleBlaze_Protein_1", InfluencerID: "3", UserID: "user4", Product: "Protein Powder", Date: "2023-07-05", Orders: 1, Revenue: 1000},
		},
		Payouts: []domain.Payout{
			{InfluencerID: "1", Campaign: "MuscleBlaze_Protein_1", Basis: domain.BasisOrder, Rate: 100, Orders: 3, TotalPayout: 300},
			{InfluencerID: "2", Campaign: "Herbalife_Tea_2", Basis: domain.BasisOrder, Rate: 150, Orders: 1, TotalPayout: 150},
			{InfluencerID: "3", Campaign: "MuscleBlaze_Protein_1", Basis: domain.BasisOrder, Rate: 120, Orders: 1, TotalPayout: 120},
		},
	}
}
