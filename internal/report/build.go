package report

import "github.com/ignite/influencer-roi/internal/roi"

// CampaignTable shapes campaign performance rows.
func CampaignTable(rows []roi.CampaignRow) *Table {
	t := &Table{
		Kind:    KindCampaigns,
		Columns: []string{"campaign", "brand", "product", "revenue", "orders", "influencers", "total_payout", "ROAS"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Campaign, r.Brand, r.Product, r.Revenue, r.Orders, r.Influencers, r.TotalPayout, r.ROAS})
	}
	return t
}

// InsightsTable shapes the joined influencer table.
func InsightsTable(rows []roi.InsightRow) *Table {
	t := &Table{
		Kind: KindInfluencers,
		Columns: []string{"id", "name", "category", "gender", "platform", "follower_count",
			"total_revenue", "total_orders", "total_payout", "ROAS"},
		Rows: make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{string(r.ID), r.Name, r.Category, r.Gender, r.Platform, r.FollowerCount,
			r.TotalRevenue, r.TotalOrders, r.TotalPayout, r.ROAS})
	}
	return t
}

// TopTable shapes the ranked list.
func TopTable(rows []roi.RankedInfluencer) *Table {
	return ranked(KindTopInfluencers, rows)
}

// UnderperformerTable shapes the ROAS < threshold list.
func UnderperformerTable(rows []roi.RankedInfluencer) *Table {
	return ranked(KindUnderperformers, rows)
}

func ranked(kind Kind, rows []roi.RankedInfluencer) *Table {
	t := &Table{Kind: kind, Columns: []string{"name", "ROAS"}, Rows: make([][]any, 0, len(rows))}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Name, r.ROAS})
	}
	return t
}

// PersonaTable shapes the (category, gender) roll-up.
func PersonaTable(rows []roi.Persona) *Table {
	t := &Table{
		Kind:    KindPersonas,
		Columns: []string{"category", "gender", "avg_roas", "total_revenue"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Category, r.Gender, r.AvgROAS, r.TotalRevenue})
	}
	return t
}

// PayoutTable shapes payout tracking rows.
func PayoutTable(rows []roi.PayoutRow) *Table {
	t := &Table{
		Kind:    KindPayouts,
		Columns: []string{"name", "campaign", "basis", "rate", "orders", "total_payout", "revenue", "ROAS"},
		Rows:    make([][]any, 0, len(rows)),
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{r.Name, r.Campaign, string(r.Basis), r.Rate, r.Orders, r.TotalPayout, r.Revenue, r.ROAS})
	}
	return t
}
