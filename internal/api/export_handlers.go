package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/pkg/httputil"
	"github.com/ignite/influencer-roi/internal/report"
	"github.com/ignite/influencer-roi/internal/roi"
	"github.com/ignite/influencer-roi/internal/storage"
)

// ExportRequest selects the reports of a bulk export. No reports means all
// six; a nil filter means every campaign.
type ExportRequest struct {
	Reports []string            `json:"reports"`
	Filter  *roi.CampaignFilter `json:"filter,omitempty"`
}

// CreateExport renders one report as CSV and archives it.
//
//	POST /api/exports/{report}?brand=&product=&platform=
func (h *Handlers) CreateExport(w http.ResponseWriter, r *http.Request) {
	kind, err := report.ParseKind(chi.URLParam(r, "report"))
	if err != nil {
		httputil.NotFound(w, err.Error())
		return
	}

	ds, ok := h.snapshot(r.Context(), w)
	if !ok {
		return
	}
	table := report.Build(h.engine, ds, kind, campaignFilter(r.URL.Query()))
	rec, err := h.export(r.Context(), ds, table)
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	httputil.Created(w, rec)
}

// CreateExports archives several reports computed from one snapshot.
//
//	POST /api/exports
func (h *Handlers) CreateExports(w http.ResponseWriter, r *http.Request) {
	var req ExportRequest
	if r.ContentLength != 0 && !httputil.Decode(w, r, &req) {
		return
	}

	kinds := report.AllKinds()
	if len(req.Reports) > 0 {
		kinds = kinds[:0:0]
		for _, name := range req.Reports {
			kind, err := report.ParseKind(name)
			if err != nil {
				httputil.BadRequest(w, err.Error())
				return
			}
			kinds = append(kinds, kind)
		}
	}
	var filter roi.CampaignFilter
	if req.Filter != nil {
		filter = *req.Filter
	}

	ds, ok := h.snapshot(r.Context(), w)
	if !ok {
		return
	}
	records := make([]*storage.ExportRecord, 0, len(kinds))
	for _, kind := range kinds {
		rec, err := h.export(r.Context(), ds, report.Build(h.engine, ds, kind, filter))
		if err != nil {
			httputil.InternalError(w, err)
			return
		}
		records = append(records, rec)
	}
	httputil.Created(w, map[string]any{"exports": records})
}

func (h *Handlers) export(ctx context.Context, ds *domain.Dataset, table *report.Table) (*storage.ExportRecord, error) {
	var buf bytes.Buffer
	if err := table.WriteCSV(&buf); err != nil {
		return nil, err
	}
	return h.exporter.Save(ctx, storage.Export{
		Report:         string(table.Kind),
		FileName:       table.Kind.FileName(),
		Content:        buf.Bytes(),
		Rows:           table.Len(),
		DatasetVersion: ds.Version,
	})
}

// ListExports returns the export manifest, newest first. ?report= narrows
// it to one report.
//
//	GET /api/exports
func (h *Handlers) ListExports(w http.ResponseWriter, r *http.Request) {
	var only report.Kind
	if v := r.URL.Query().Get("report"); v != "" {
		kind, err := report.ParseKind(v)
		if err != nil {
			httputil.BadRequest(w, err.Error())
			return
		}
		only = kind
	}

	records, err := h.exporter.List(r.Context())
	if err != nil {
		httputil.InternalError(w, err)
		return
	}
	out := make([]storage.ExportRecord, 0, len(records))
	for _, rec := range records {
		if only == "" || rec.Report == string(only) {
			out = append(out, rec)
		}
	}
	httputil.OK(w, map[string]any{"exports": out, "total": len(out)})
}
