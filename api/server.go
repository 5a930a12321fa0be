/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for browser front ends
  5. RateLimit:  Per-client limit on calculation routes only

ROUTE GROUPS:
  /api/calculators/*    Calculator catalog and runs
  /api/calculations/*   Saved history and schedule exports
  /api/scenarios/*      Preset example inputs
  /api/retention/*      History pruning log
  /healthz              Liveness

SECURITY NOTE:
  No authentication middleware. All endpoints are public; the rate
  limiter is the only guard on compute-heavy routes.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// RouterOptions configures cross-cutting middleware.
type RouterOptions struct {
	// AllowedOrigins for CORS. Empty means any origin.
	AllowedOrigins []string
	// Limiter, when set, guards the POST calculation routes.
	Limiter *RateLimiter
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	limited := func(r chi.Router) chi.Router {
		if opts.Limiter == nil {
			return r
		}
		return r.With(opts.Limiter.Middleware)
	}

	r.Get("/healthz", h.Health)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Calculator routes
		r.Route("/calculators", func(r chi.Router) {
			r.Get("/", h.ListCalculators)
			limited(r).Post("/{kind}", h.RunCalculator)
		})

		// History routes
		r.Route("/calculations", func(r chi.Router) {
			r.Get("/", h.ListCalculations)
			r.Get("/{id}", h.GetCalculation)
			r.Get("/{id}/schedule.csv", h.ExportScheduleCSV)
			r.Get("/{id}/schedule.pdf", h.ExportSchedulePDF)
		})

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			limited(r).Post("/{id}/run", h.RunScenario)
		})

		// Retention routes
		r.Route("/retention", func(r chi.Router) {
			r.Get("/runs", h.ListRetentionRuns)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Route not found", nil)
	})

	return r
}
