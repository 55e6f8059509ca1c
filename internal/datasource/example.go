package datasource

import (
	"context"

	"github.com/ignite/influencer-roi/internal/domain"
)

// Example returns a fresh copy of the built-in example set: three
// influencers, three posts, four tracking rows and three payouts.
func Example() *domain.Dataset {
	return &domain.Dataset{
		Influencers: []domain.Influencer{
			{ID: "1", Name: "John Doe", Category: "Fitness", Gender: "Male", FollowerCount: 100000, Platform: "Instagram"},
			{ID: "2", Name: "Jane Smith", Category: "Wellness", Gender: "Female", FollowerCount: 80000, Platform: "YouTube"},
			{ID: "3", Name: "Alex Lee", Category: "Nutrition", Gender: "Non-binary", FollowerCount: 50000, Platform: "Instagram"},
		},
		Posts: []domain.Post{
			{InfluencerID: "1", Platform: "Instagram", Date: "2023-07-01", URL: "https://insta.com/1", Caption: "Check out this product", Reach: 5000, Likes: 100, Comments: 10},
			{InfluencerID: "2", Platform: "YouTube", Date: "2023-07-03", URL: "https://yt.com/2", Caption: "Amazing results!", Reach: 8000, Likes: 200, Comments: 20},
			{InfluencerID: "3", Platform: "Instagram", Date: "2023-07-05", URL: "https://insta.com/3", Caption: "Healthy living", Reach: 3000, Likes: 50, Comments: 5},
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

// ExampleSource serves the built-in example set.
type ExampleSource struct{}

func (ExampleSource) Name() string { return "example" }

func (ExampleSource) Load(context.Context) (*domain.Dataset, error) {
	return Example(), nil
}
