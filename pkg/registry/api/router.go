package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/registrylabs/content-registry/pkg/registry"
	"github.com/registrylabs/content-registry/pkg/registry/auth"
)

// Config carries the dependencies the router mounts
type Config struct {
	Service        registry.Service
	Tokens         *auth.TokenService
	BlobStore      registry.BlobStore
	MaxUploadBytes int64

	// EnableCORS opens the API to any origin; development only
	EnableCORS bool
}

// NewRouter assembles the full API surface
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Timeout(60 * time.Second))

	if cfg.EnableCORS {
		r.Use(corsMiddleware)
	}

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Mount("/api/auth", NewAuthHandler(cfg.Service, cfg.Tokens).Routes())
	r.Mount("/api/content", NewContentHandler(cfg.Service, cfg.Tokens, cfg.BlobStore, cfg.MaxUploadBytes).Routes())
	r.Mount("/api/user", NewUserHandler(cfg.Service).Routes())

	return r
}

// corsMiddleware allows any origin; for development use
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
