package datasource

import (
	"strings"

	"github.com/ignite/influencer-roi/internal/domain"
)

// requiredColumns lists the columns each table must carry. Tracking may
// also carry user_id.
var requiredColumns = map[domain.TableName][]string{
	domain.TableInfluencers: {"id", "name", "category", "gender", "follower_count", "platform"},
	domain.TablePosts:       {"influencer_id", "platform", "date", "url", "caption", "reach", "likes", "comments"},
	domain.TableTracking:    {"source", "campaign", "influencer_id", "product", "date", "orders", "revenue"},
	domain.TablePayouts:     {"influencer_id", "campaign", "basis", "rate", "orders", "total_payout"},
}

// columnAliases maps normalized raw headers to canonical columns.
var columnAliases = map[string]string{
	"influencerid":    "influencer_id",
	"creator_id":      "influencer_id",
	"followers":       "follower_count",
	"followers_count": "follower_count",
	"followercount":   "follower_count",
	"campaign_name":   "campaign",
	"campaign_id":     "campaign",
	"order_count":     "orders",
	"num_orders":      "orders",
	"sales":           "revenue",
	"amount":          "revenue",
	"payout":          "total_payout",
	"totalpayout":     "total_payout",
	"payout_basis":    "basis",
	"payout_rate":     "rate",
	"userid":          "user_id",
	"customer_id":     "user_id",
	"channel":         "platform",
	"niche":           "category",
	"sex":             "gender",
	"link":            "url",
	"post_url":        "url",
	"views":           "reach",
	"impressions":     "reach",
}

// canonicalColumn normalizes a raw header: trimmed, lower-cased, spaces and
// hyphens as underscores, then aliased. In the roster an influencer_id
// header is the id.
func canonicalColumn(table domain.TableName, raw string) string {
	h := strings.ToLower(strings.TrimSpace(raw))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	if alias, ok := columnAliases[h]; ok {
		h = alias
	}
	if table == domain.TableInfluencers && h == "influencer_id" {
		h = "id"
	}
	return h
}

// mapColumns indexes the header by canonical name. The first occurrence of
// a duplicated column wins.
func mapColumns(table domain.TableName, header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, raw := range header {
		col := canonicalColumn(table, raw)
		if col == "" {
			continue
		}
		if _, dup := index[col]; !dup {
			index[col] = i
		}
	}

	var missing []string
	for _, col := range requiredColumns[table] {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Table: table, Columns: missing, Err: ErrMissingColumn}
	}
	return index, nil
}
