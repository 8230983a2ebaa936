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

	// credential-bearing routes share the per-source throttle
	router.Group(func(r chi.Router) {
		r.Use(h.throttle.middleware)
		r.Post("/api/auth/register", h.register)
		r.Post("/api/auth/login", h.login)
		r.Post("/api/auth/mfa/verify", h.mfaVerify)
		r.Post("/api/auth/password/reset", h.resetRequest)
		r.Post("/api/auth/password/reset/confirm", h.resetConfirm)
	})

	// routes requiring a live session
	router.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Post("/api/auth/logout", h.logout)
		r.Post("/api/auth/mfa/enroll", h.mfaEnroll)
		r.Post("/api/admin/actions", h.adminAction)
		r.Get("/api/admin/actions", h.adminList)
	})

	router.MethodNotAllowed(CheckHTTPMethod(router))

	return router
}
