package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ignite/influencer-roi/internal/pkg/httputil"
)

// SetupRoutes configures all API routes.
func SetupRoutes(h *Handlers, health *HealthChecker) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", health.HandleHealth)
	r.Get("/health/live", health.HandleLiveness)
	r.Get("/health/ready", health.HandleReadiness)

	r.Route("/api", func(r chi.Router) {
		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", h.GetDatasetSummary)
			r.Get("/preview", h.GetDatasetPreview)
			r.Post("/example", h.LoadExample)
			r.Post("/reload", h.ReloadDataset)
			r.Post("/{table}", h.UploadTable)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/filters", h.GetFilterOptions)
			r.Get("/campaigns", h.GetCampaignPerformance)
			r.Get("/influencers", h.GetInfluencerInsights)
			r.Get("/influencers/top", h.GetTopInfluencers)
			r.Get("/influencers/personas", h.GetPersonas)
			r.Get("/influencers/underperformers", h.GetUnderperformers)
			r.Get("/payouts", h.GetPayoutTracking)
		})

		r.Route("/exports", func(r chi.Router) {
			r.Get("/", h.ListExports)
			r.Post("/", h.CreateExports)
			r.Post("/{report}", h.CreateExport)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.NotFound(w, "no route for "+r.Method+" "+r.URL.Path)
	})

	return r
}
