package api

import (
	"bytes"
	"net/http"
	"net/url"

	"github.com/ignite/influencer-roi/internal/pkg/httputil"
	"github.com/ignite/influencer-roi/internal/report"
	"github.com/ignite/influencer-roi/internal/roi"
)

// ReportResponse carries report rows and the snapshot version they were
// computed from.
type ReportResponse struct {
	Report  report.Kind `json:"report"`
	Version string      `json:"version"`
	Rows    any         `json:"rows"`
}

// FilterResponse lists the campaign filter values of the snapshot.
type FilterResponse struct {
	Version string `json:"version"`
	roi.FilterOptions
}

// GetFilterOptions returns the selectable brands, products and platforms.
//
//	GET /api/reports/filters
func (h *Handlers) GetFilterOptions(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot(r.Context(), w)
	if !ok {
		return
	}
	httputil.OK(w, FilterResponse{Version: ds.Version, FilterOptions: h.engine.Filters(ds)})
}

// GetCampaignPerformance returns revenue, orders, payout and ROAS per
// campaign. Repeated brand, product and platform params narrow the view;
// an absent param selects every value.
//
//	GET /api/reports/campaigns?brand=&product=&platform=&format=csv
func (h *Handlers) GetCampaignPerformance(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, report.KindCampaigns)
}

// GetInfluencerInsights returns every roster row joined with its totals.
//
//	GET /api/reports/influencers
func (h *Handlers) GetInfluencerInsights(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, report.KindInfluencers)
}

// GetTopInfluencers returns the highest-ROAS influencers.
//
//	GET /api/reports/influencers/top
func (h *Handlers) GetTopInfluencers(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, report.KindTopInfluencers)
}

// GetPersonas returns the (category, gender) roll-up.
//
//	GET /api/reports/influencers/personas
func (h *Handlers) GetPersonas(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, report.KindPersonas)
}

// GetUnderperformers returns influencers below the ROAS threshold.
//
//	GET /api/reports/influencers/underperformers
func (h *Handlers) GetUnderperformers(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, report.KindUnderperformers)
}

// GetPayoutTracking returns each payout reconciled with tracked revenue.
//
//	GET /api/reports/payouts
func (h *Handlers) GetPayoutTracking(w http.ResponseWriter, r *http.Request) {
	h.serveReport(w, r, report.KindPayouts)
}

// serveReport answers with typed rows as JSON, or with the report table as
// a CSV attachment when format=csv.
func (h *Handlers) serveReport(w http.ResponseWriter, r *http.Request, kind report.Kind) {
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "csv" {
		httputil.BadRequest(w, "format must be json or csv")
		return
	}

	ds, ok := h.snapshot(r.Context(), w)
	if !ok {
		return
	}
	filter := campaignFilter(r.URL.Query())

	if format == "csv" {
		table := report.Build(h.engine, ds, kind, filter)
		httputil.CSV(w, kind.FileName(), func(buf *bytes.Buffer) error {
			return table.WriteCSV(buf)
		})
		return
	}

	var rows any
	switch kind {
	case report.KindCampaigns:
		rows = h.engine.Campaigns(ds, filter)
	case report.KindInfluencers:
		rows = h.engine.Insights(ds).Rows
	case report.KindTopInfluencers:
		rows = h.engine.Insights(ds).Top
	case report.KindPersonas:
		rows = h.engine.Insights(ds).Personas
	case report.KindUnderperformers:
		rows = h.engine.Insights(ds).Underperformers
	case report.KindPayouts:
		rows = h.engine.Payouts(ds)
	}
	httputil.OK(w, ReportResponse{Report: kind, Version: ds.Version, Rows: rows})
}

// campaignFilter builds a filter from repeated query params. A param that
// is present with only blank values selects nothing.
func campaignFilter(q url.Values) roi.CampaignFilter {
	return roi.CampaignFilter{
		Brands:    selected(q, "brand"),
		Products:  selected(q, "product"),
		Platforms: selected(q, "platform"),
	}
}

func selected(q url.Values, key string) []string {
	values, ok := q[key]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
