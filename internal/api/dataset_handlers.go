package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/influencer-roi/internal/datasource"
	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/pkg/distlock"
	"github.com/ignite/influencer-roi/internal/pkg/httputil"
	"github.com/ignite/influencer-roi/internal/pkg/logger"
)

const (
	defaultPreviewRows = 5
	maxPreviewRows     = 500
)

// DatasetSummary describes the current snapshot.
type DatasetSummary struct {
	Version  string                   `json:"version"`
	LoadedAt *time.Time               `json:"loaded_at,omitempty"`
	Source   string                   `json:"source"`
	Tables   map[domain.TableName]int `json:"tables"`
}

// DatasetPreview holds the first rows of each table.
type DatasetPreview struct {
	Version     string                 `json:"version"`
	Limit       int                    `json:"limit"`
	Influencers []domain.Influencer    `json:"influencers"`
	Posts       []domain.Post          `json:"posts"`
	Tracking    []domain.TrackingEntry `json:"tracking"`
	Payouts     []domain.Payout        `json:"payouts"`
}

func (h *Handlers) summarize(ds *domain.Dataset) DatasetSummary {
	s := DatasetSummary{
		Version: ds.Version,
		Source:  h.source.Name(),
		Tables:  make(map[domain.TableName]int, 4),
	}
	if !ds.LoadedAt.IsZero() {
		loaded := ds.LoadedAt
		s.LoadedAt = &loaded
	}
	for _, t := range domain.AllTables() {
		s.Tables[t] = ds.Count(t)
	}
	return s
}

// GetDatasetSummary returns the version and row counts of the snapshot.
//
//	GET /api/datasets
func (h *Handlers) GetDatasetSummary(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.snapshot(r.Context(), w)
	if !ok {
		return
	}
	httputil.OK(w, h.summarize(ds))
}

// GetDatasetPreview returns the first rows of every table.
//
//	GET /api/datasets/preview?limit=5
func (h *Handlers) GetDatasetPreview(w http.ResponseWriter, r *http.Request) {
	limit := defaultPreviewRows
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxPreviewRows {
			httputil.BadRequest(w, fmt.Sprintf("limit must be between 1 and %d", maxPreviewRows))
			return
		}
		limit = n
	}

	ds, ok := h.snapshot(r.Context(), w)
	if !ok {
		return
	}
	httputil.OK(w, DatasetPreview{
		Version:     ds.Version,
		Limit:       limit,
		Influencers: head(ds.Influencers, limit),
		Posts:       head(ds.Posts, limit),
		Tracking:    head(ds.Tracking, limit),
		Payouts:     head(ds.Payouts, limit),
	})
}

func head[T any](rows []T, n int) []T {
	if len(rows) > n {
		return rows[:n]
	}
	if rows == nil {
		return []T{}
	}
	return rows
}

// UploadTable replaces one table with an uploaded CSV. The body is either
// the raw CSV or a multipart form with the file in field "file".
//
//	POST /api/datasets/{table}
func (h *Handlers) UploadTable(w http.ResponseWriter, r *http.Request) {
	table, err := domain.ParseTableName(chi.URLParam(r, "table"))
	if err != nil {
		httputil.NotFound(w, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	body, err := uploadBody(r)
	if err != nil {
		h.uploadError(w, table, err)
		return
	}
	defer body.Close()

	ds := &domain.Dataset{}
	if err := datasource.ParseTable(table, body, ds); err != nil {
		h.uploadError(w, table, err)
		return
	}

	if err := h.store.Replace(r.Context(), ds, table); err != nil {
		httputil.InternalError(w, err)
		return
	}
	logger.Info("table replaced from upload", "table", table, "rows", ds.Count(table))

	h.respondSummary(r.Context(), w)
}

// uploadBody returns the CSV stream of an upload request.
func uploadBody(r *http.Request) (io.ReadCloser, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return r.Body, nil
	}
	reader, err := r.MultipartReader()
	if err != nil {
		return nil, err
	}
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errMissingFilePart
		}
		if err != nil {
			return nil, err
		}
		if part.FormName() == "file" {
			return part, nil
		}
		part.Close()
	}
}

var errMissingFilePart = errors.New(`multipart upload has no "file" field`)

func (h *Handlers) uploadError(w http.ResponseWriter, table domain.TableName, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		httputil.Error(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
	case datasource.IsSchemaError(err), errors.Is(err, errMissingFilePart):
		logger.Warn("upload rejected", "table", table, "error", err)
		httputil.BadRequest(w, err.Error())
	default:
		httputil.InternalError(w, err)
	}
}

// LoadExample resets all four tables to the built-in example set.
//
//	POST /api/datasets/example
func (h *Handlers) LoadExample(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Replace(r.Context(), datasource.Example()); err != nil {
		httputil.InternalError(w, err)
		return
	}
	logger.Info("example dataset loaded")
	h.respondSummary(r.Context(), w)
}

// ReloadDataset reloads all four tables from the configured source. Only
// one reload runs at a time across every instance sharing the store.
//
//	POST /api/datasets/reload
func (h *Handlers) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	err := distlock.Run(r.Context(), h.store.Lock("reload"), func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, h.loadTimeout)
		defer cancel()

		start := time.Now()
		ds, err := h.source.Load(ctx)
		if err != nil {
			return err
		}
		if err := h.store.Replace(ctx, ds); err != nil {
			return err
		}
		logger.Info("dataset reloaded", "source", h.source.Name(), "duration", time.Since(start).String())
		return nil
	})

	switch {
	case err == nil:
		h.respondSummary(r.Context(), w)
	case errors.Is(err, distlock.ErrNotAcquired):
		httputil.ErrorCode(w, http.StatusConflict, "reload_in_progress", "a reload is already running")
	case datasource.IsSchemaError(err):
		logger.Warn("reload rejected", "source", h.source.Name(), "error", err)
		httputil.Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		httputil.Error(w, http.StatusGatewayTimeout, "source load timed out")
	default:
		httputil.InternalError(w, err)
	}
}

func (h *Handlers) respondSummary(ctx context.Context, w http.ResponseWriter) {
	ds, ok := h.snapshot(ctx, w)
	if !ok {
		return
	}
	httputil.OK(w, h.summarize(ds))
}
