// Package router assembles the chi router for the HTTP API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/xavierca1/leadflow/internal/infra/http/handlers"
	"github.com/xavierca1/leadflow/internal/infra/http/middleware"
	"github.com/xavierca1/leadflow/internal/infra/metrics"
)

type Handlers struct {
	Health     *handlers.HealthHandler
	Settings   *handlers.SettingsHandler
	Leads      *handlers.LeadHandler
	Workflows  *handlers.WorkflowHandler
	Validation *handlers.ValidationHandler
	Evals      *handlers.EvalHandler
}

func New(h Handlers, corsOrigins []string, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Get("/health", h.Health.Handle)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Get("/settings", h.Settings.Handle)

	r.Route("/leads", func(r chi.Router) {
		r.Post("/", h.Leads.Create)
		r.Get("/", h.Leads.List)
		r.Delete("/", h.Leads.Clear)
		r.Post("/validate", h.Validation.Handle)
		r.Get("/export.csv", h.Leads.Export)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Leads.Get)
			r.Delete("/", h.Leads.Delete)
			r.Get("/interactions", h.Leads.Interactions)
			r.Post("/notes", h.Leads.AddNote)
			r.Post("/qualify", h.Workflows.Qualify)
			r.Post("/outreach", h.Workflows.Outreach)
			r.Post("/outreach/{interactionId}/send", h.Workflows.Send)
		})
	})

	r.Post("/evals/run", h.Evals.Run)

	return r
}
