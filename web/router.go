package web

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter wires the handler layer onto a chi router with the global
// middleware chain. maxBodyBytes is the request size ceiling enforced before
// any handler logic runs, so oversized uploads are rejected by the platform
// rather than the upload handler.
func NewRouter(h *Handlers, maxBodyBytes int64) chi.Router {
	r := chi.NewRouter()

	// Global middleware, registered before any routes.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.RequestSize(maxBodyBytes))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/", h.HandleHome())

	r.Get("/register", h.HandleRegisterForm())
	r.Post("/register", h.HandleRegister())

	r.Get("/login", h.HandleLoginForm())
	r.Post("/login", h.HandleLogin())

	// Session-gated routes.
	r.Get("/profile", h.HandleProfile())
	r.Post("/profile", h.HandleProfileUpload())
	r.Get("/download/{filename}", h.HandleDownload())

	r.Get("/logout", h.HandleLogout())

	return r
}
