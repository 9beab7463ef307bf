/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the React client

ROUTE GROUPS:
  /api/physicians/*     Physician registry, availability, leave
  /api/leave/*          Leave deletion
  /api/rotations        Fixed rotations
  /api/coverage         Coverage requirements
  /api/shifts           Shift catalog
  /api/rosters/*        Generation, override, hours
  /api/scenarios/*      Demo scenarios

SECURITY NOTE:
  No authentication middleware. All endpoints are public.

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

// DefaultAllowedOrigins are used when the caller passes none.
var DefaultAllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, allowedOrigins []string) *chi.Mux {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/physicians", func(r chi.Router) {
			r.Get("/", h.ListPhysicians)
			r.Post("/", h.SavePhysician)
			r.Get("/{id}", h.GetPhysician)
			r.Delete("/{id}", h.DeletePhysician)
			r.Get("/{id}/availability/{year}/{month}", h.GetAvailability)
			r.Put("/{id}/availability/{year}/{month}", h.PutAvailability)
			r.Get("/{id}/leave", h.ListLeave)
			r.Post("/{id}/leave", h.CreateLeave)
		})

		r.Delete("/leave/{id}", h.DeleteLeave)

		r.Get("/rotations", h.ListRotations)
		r.Put("/rotations", h.SaveRotation)

		r.Get("/coverage", h.GetCoverage)
		r.Put("/coverage", h.PutCoverage)

		r.Get("/shifts", h.ListShifts)

		r.Route("/rosters", func(r chi.Router) {
			r.Post("/generate", h.GenerateRoster)
			r.Get("/{year}/{month}", h.GetRoster)
			r.Post("/{year}/{month}/override", h.OverrideRoster)
			r.Get("/{year}/{month}/hours", h.GetHours)
		})

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Get("/current", h.GetCurrentScenario)
			r.Post("/load", h.LoadScenario)
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}
