// Package http provides HTTP routing and middleware configuration for the
// SportConnectIA gateway.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/atinyakov/SportConnectIA/internal/middleware"
)

// NewRouter constructs the gateway handler.
//
// Routes:
//
//	GET  /health                         → health.Health
//	*    /auth /sports /reco /chat (+/*) → proxy (one backend each)
//	GET  /*                              → static, when non-nil
//
// Middleware chain (applied in order):
//  1. RequestID and Recoverer from chi
//  2. CORS(origins)
//  3. Identity, then WithRequestLogging(logger)
func NewRouter(
	proxy *ProxyHandler,
	health *HealthHandler,
	static http.Handler,
	origins []string,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(origins))
	r.Use(middleware.Identity)
	r.Use(middleware.WithRequestLogging(logger))

	r.Get("/health", health.Health)
	proxy.Mount(r)

	if static != nil {
		r.Handle("/*", static)
	} else {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, http.StatusNotFound, "not found")
		})
	}

	return r
}
