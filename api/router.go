package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"github.com/rustyeddy/capital/metrics"
)

// NewRouter creates the chi router with all API routes mounted.
func NewRouter(m *metrics.Registry) http.Handler {
	// Amounts go out as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	h := &Handlers{metrics: m}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.Health)
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/evaluations", h.CreateEvaluation)
		r.Post("/reports", h.CreateReport)

		// Reference data.
		r.Get("/presets", h.ListPresets)
		r.Get("/projections", h.ListProjections)
		r.Get("/scenarios", h.ListScenarios)
	})

	return r
}
