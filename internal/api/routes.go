package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/samedayramps/tiny-church-app/internal/auth"
)

// SetupRoutes configures all API routes. CRUD and settings routes sit
// behind the session middleware; the messaging send and sweep endpoints
// use a service token instead so schedulers and trusted callers can
// reach them headlessly.
func SetupRoutes(h *Handlers, sessions *auth.Manager, allowedOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)

	// CORS with credentials so the session cookie flows.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", h.HealthCheck)

	// Auth routes (no session required).
	r.Post("/auth/login", h.Login)
	r.Post("/auth/logout", h.Logout)
	r.Get("/auth/session", h.CurrentSession)

	// The send pipeline and the sweep run under the service token, not
	// a browser session.
	r.Post("/api/messaging/send", h.Send)
	r.Post("/api/messaging/sweep", h.Sweep)

	r.Route("/api", func(r chi.Router) {
		r.Use(sessions.RequireSession)

		r.Route("/members", func(r chi.Router) {
			r.Get("/", h.ListMembers)
			r.Post("/", h.CreateMember)
			r.Get("/{id}", h.GetMember)
			r.Put("/{id}", h.UpdateMember)
			r.Delete("/{id}", h.DeactivateMember)
		})

		r.Route("/groups", func(r chi.Router) {
			r.Get("/", h.ListGroups)
			r.Post("/", h.CreateGroup)
			r.Get("/{id}", h.GetGroup)
			r.Put("/{id}", h.UpdateGroup)
			r.Delete("/{id}", h.DeleteGroup)
			r.Get("/{id}/members", h.GroupMembers)
			r.Post("/{id}/members/{memberID}", h.AddGroupMember)
			r.Delete("/{id}/members/{memberID}", h.RemoveGroupMember)
		})

		r.Route("/events", func(r chi.Router) {
			r.Get("/", h.ListEvents)
			r.Post("/", h.CreateEvent)
			r.Get("/{id}", h.GetEvent)
			r.Put("/{id}", h.UpdateEvent)
			r.Delete("/{id}", h.DeleteEvent)
			r.Get("/{id}/attendees", h.EventAttendees)
			r.Post("/{id}/attendees/{memberID}", h.AddAttendee)
			r.Delete("/{id}/attendees/{memberID}", h.RemoveAttendee)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", h.GetSettings)
			r.Put("/", h.UpdateSettings)
		})

		r.Get("/messaging/logs", h.Logs)
	})

	return r
}
