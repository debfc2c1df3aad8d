/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:  Unique ID per request for tracing
  2. Logging:    One structured logrus line per request (includes request id)
  3. Recoverer:  Panic recovery (500 instead of crash)
  4. CORS:       Cross-origin requests for frontend

ROUTE GROUPS:
  /api/studies/*        Study definitions, inventory, projections
  /api/projections      Ad-hoc projection of an inline study
  /api/portfolio        All studies at once
  /api/monitor          Last solvency monitor report
  /api/scenarios/*      Demo scenarios
  /health               Liveness

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public.

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

	"github.com/warp/reserve-engine/logging"
)

// RouterOptions configures NewRouter.
type RouterOptions struct {
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// Monitor, when set, exposes GET /api/monitor.
	Monitor *SolvencyMonitor
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(h.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/studies", func(r chi.Router) {
			r.Get("/", h.ListStudies)
			r.Post("/", h.CreateStudy)
			r.Get("/{id}", h.GetStudy)
			r.Delete("/{id}", h.DeleteStudy)
			r.Get("/{id}/projection", h.GetProjection)
			r.Get("/{id}/critical", h.GetCritical)
			r.Get("/{id}/categories", h.GetCategories)
			r.Post("/{id}/components", h.AddComponent)
			r.Delete("/{id}/components/{componentID}", h.RemoveComponent)
		})

		r.Post("/projections", h.ProjectInline)
		r.Get("/portfolio", h.GetPortfolio)

		if opts.Monitor != nil {
			r.Get("/monitor", opts.Monitor.GetMonitorReport)
		}

		// Scenario routes
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	return r
}
