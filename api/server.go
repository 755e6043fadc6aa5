/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the frontend

ROUTE GROUPS:
  /api/tenants/*      Tenant policy and overtime calculation
  /api/timesheets/*   Entry validation and CRUD-lite
  /api/projects       Project listing

SECURITY NOTE:
  No authentication middleware currently. All endpoints are public; the
  surrounding platform fronts this service with its own auth.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Tenant routes
		r.Route("/tenants/{id}", func(r chi.Router) {
			r.Get("/policy", h.GetTenantPolicy)
			r.Put("/settings", h.UpdateTenantSettings)
			r.Post("/overtime/week", h.CalculateWeek)
			r.Post("/overtime/day", h.CalculateDay)
		})

		// Timesheet routes
		r.Route("/timesheets", func(r chi.Router) {
			r.Get("/", h.ListTimesheets)
			r.Post("/", h.CreateTimesheet)
			r.Post("/validate", h.ValidateTimesheet)
			r.Get("/{id}", h.GetTimesheet)
		})

		// Project routes
		r.Get("/projects", h.ListProjects)
	})

	return r
}
