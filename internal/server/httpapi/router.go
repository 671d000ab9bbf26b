package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sebak/authd/internal/logging"
	"github.com/sebak/authd/internal/server/services"
)

// RouterDeps bundles what NewRouter needs.
type RouterDeps struct {
	Auth        *services.AuthService
	Log         logging.Logger
	Metrics     *Metrics
	RateLimiter *RateLimiter
}

// NewRouter wires the endpoints and the middleware chain.
//
// The credential endpoints sit behind the per-client rate limiter; /api/me
// additionally requires a bearer token.
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(RequestLogging(deps.Log))
	r.Use(Recovery(deps.Log))

	h := NewAuthHandler(deps.Auth, deps.Log, deps.Metrics)

	r.Get("/healthz", Healthz)
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	r.Group(func(r chi.Router) {
		r.Use(deps.RateLimiter.Middleware())
		r.Post("/api/register", h.Register)
		r.Post("/api/login", h.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(Authenticator(deps.Auth, deps.Metrics))
		r.Get("/api/me", h.Me)
	})

	return r
}
