package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/influencer-roi/internal/datasource"
	"github.com/ignite/influencer-roi/internal/domain"
	"github.com/ignite/influencer-roi/internal/pkg/httputil"
	"github.com/ignite/influencer-roi/internal/roi"
	"github.com/ignite/influencer-roi/internal/session"
	"github.com/ignite/influencer-roi/internal/storage"
)

const (
	defaultMaxUpload   = 32 << 20
	defaultLoadTimeout = time.Minute
)

// Handlers contains all HTTP handlers
type Handlers struct {
	store       session.Store
	source      datasource.Source
	engine      *roi.Engine
	exporter    storage.Exporter
	maxUpload   int64
	loadTimeout time.Duration
}

// NewHandlers creates a new Handlers instance
func NewHandlers(store session.Store, source datasource.Source, engine *roi.Engine, exporter storage.Exporter) *Handlers {
	return &Handlers{
		store:       store,
		source:      source,
		engine:      engine,
		exporter:    exporter,
		maxUpload:   defaultMaxUpload,
		loadTimeout: defaultLoadTimeout,
	}
}

// SetMaxUploadBytes caps the size of a single table upload.
func (h *Handlers) SetMaxUploadBytes(n int64) {
	if n > 0 {
		h.maxUpload = n
	}
}

// SetLoadTimeout bounds a reload from the configured source.
func (h *Handlers) SetLoadTimeout(d time.Duration) {
	if d > 0 {
		h.loadTimeout = d
	}
}

// snapshot fetches the current dataset, writing a 500 on failure.
func (h *Handlers) snapshot(ctx context.Context, w http.ResponseWriter) (*domain.Dataset, bool) {
	ds, err := h.store.Snapshot(ctx)
	if err != nil {
		httputil.InternalError(w, err)
		return nil, false
	}
	return ds, true
}
