package report

import (
	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/roi"
)

// Build runs the pipeline behind kind and shapes its result. The campaign
// filter only applies to KindCampaigns.
func Build(e *roi.Engine, ds *domain.Dataset, kind Kind, f roi.CampaignFilter) *Table {
	switch kind {
	case KindCampaigns:
		return CampaignTable(e.Campaigns(ds, f))
	case KindInfluencers:
		return InsightsTable(e.Insights(ds).Rows)
	case KindTopInfluencers:
		return TopTable(e.Insights(ds).Top)
	case KindPersonas:
		return PersonaTable(e.Insights(ds).Personas)
	case KindUnderperformers:
		return UnderperformerTable(e.Insights(ds).Underperformers)
	case KindPayouts:
		return PayoutTable(e.Payouts(ds))
	}
	return nil
}

// BuildAll renders every report table from one snapshot.
func BuildAll(e *roi.Engine, ds *domain.Dataset, f roi.CampaignFilter) []*Table {
	insights := e.Insights(ds)
	return []*Table{
		CampaignTable(e.Campaigns(ds, f)),
		InsightsTable(insights.Rows),
		TopTable(insights.Top),
		PersonaTable(insights.Personas),
		UnderperformerTable(insights.Underperformers),
		PayoutTable(e.Payouts(ds)),
	}
}
