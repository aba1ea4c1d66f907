package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)
	router.Use(h.withLogging)
	router.Use(withGZip)

	// routes without authorization
	router.Group(func(r chi.Router) {
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Get("/api/version", h.getServerVersion)
	})

	// routes requiring a valid bearer token
	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/auth/me", h.me)

		r.Post("/api/sessions/start", h.startSession)
		r.Post("/api/sessions/{sessionID}/upload", h.uploadSession)
		r.Get("/api/sessions/recent", h.recentSessions)

		r.Get("/api/progress/overview", h.progressOverview)
		r.Get("/api/analytics", h.analytics)
		r.Get("/api/achievements", h.achievements)

		r.Get("/api/users/profile", h.profile)
		r.Put("/api/users/preferences", h.updatePreferences)
	})

	return router
}
