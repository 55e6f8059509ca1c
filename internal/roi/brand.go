package roi

import (
	"strings"

	"github.com/ignite/influencer-roi/internal/domain"
)

// Campaign format: <Brand>_<Product>_<N>
//   MuscleBlaze_Protein_1 -> MuscleBlaze
//   Herbalife_Tea_2       -> Herbalife
//   NoUnderscore          -> NoUnderscore

// DeriveBrand returns the leading "_"-separated token of a campaign id.
// ok is false when the campaign is missing. The token is returned verbatim.
func DeriveBrand(campaign string) (brand string, ok bool) {
	if campaign == "" {
		return "", false
	}
	brand, _, _ = strings.Cut(campaign, "_")
	return brand, true
}

// BrandedEntry is a tracking entry with its derived brand.
type BrandedEntry struct {
	domain.TrackingEntry
	Brand    string
	HasBrand bool
}

// BrandedPayout is a payout with its derived brand.
type BrandedPayout struct {
	domain.Payout
	Brand    string
	HasBrand bool
}

// BrandTracking derives the brand of every entry. The input is not modified.
func BrandTracking(entries []domain.TrackingEntry) []BrandedEntry {
	out := make([]BrandedEntry, len(entries))
	for i, e := range entries {
		b, ok := DeriveBrand(e.Campaign)
		out[i] = BrandedEntry{TrackingEntry: e, Brand: b, HasBrand: ok}
	}
	return out
}

// BrandPayouts derives the brand of every payout. The rule is the same as
// for tracking entries, applied independently; divergent campaign spellings
// between the two tables are not detected.
func BrandPayouts(payouts []domain.Payout) []BrandedPayout {
	out := make([]BrandedPayout, len(payouts))
	for i, p := range payouts {
		b, ok := DeriveBrand(p.Campaign)
		out[i] = BrandedPayout{Payout: p, Brand: b, HasBrand: ok}
	}
	return out
}
