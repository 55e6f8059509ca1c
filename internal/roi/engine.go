package roi

import (
	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/pkg/logger"
)

// Engine runs the three pipelines with configured options. It keeps no
// state between calls; each call recomputes from the snapshot it is given.
type Engine struct {
	opts InsightOptions
}

// NewEngine creates an engine. Zero options fall back to the defaults.
func NewEngine(opts InsightOptions) *Engine {
	return &Engine{opts: opts.normalized()}
}

// Options returns the insight options in effect.
func (e *Engine) Options() InsightOptions { return e.opts }

// Filters lists the selectable campaign filter values.
func (e *Engine) Filters(ds *domain.Dataset) FilterOptions {
	return Options(ds)
}

// Campaigns runs the campaign performance pipeline.
func (e *Engine) Campaigns(ds *domain.Dataset, f CampaignFilter) []CampaignRow {
	rows := CampaignPerformance(ds, f)
	logger.Debug("campaign performance computed",
		"version", ds.Version, "tracking_rows", len(ds.Tracking), "groups", len(rows))
	return rows
}

// Insights runs the influencer insights pipeline.
func (e *Engine) Insights(ds *domain.Dataset) *Insights {
	out := InfluencerInsights(ds, e.opts)
	logger.Debug("influencer insights computed",
		"version", ds.Version, "influencers", len(out.Rows),
		"personas", len(out.Personas), "underperformers", len(out.Underperformers))
	return out
}

// Payouts runs the payout tracking pipeline.
func (e *Engine) Payouts(ds *domain.Dataset) []PayoutRow {
	rows := PayoutTracking(ds)
	logger.Debug("payout tracking computed", "version", ds.Version, "payouts", len(rows))
	return rows
}
