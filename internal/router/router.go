package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"candidate-registry/internal/config"
	"candidate-registry/internal/handler"
	"candidate-registry/internal/middleware"
)

type Handlers struct {
	Auth      *handler.AuthHandler
	Candidate *handler.CandidateHandler
	Health    *handler.HealthHandler
	Docs      *handler.DocsHandler
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(middleware.SecurityHeaders)

	r.Get("/health", h.Health.Live)
	r.Get("/openapi.yaml", h.Docs.OpenAPI)
	r.Get("/swagger", h.Docs.SwaggerUI)

	r.Route("/api", func(api chi.Router) {
		api.Use(middleware.Timeout(cfg.RequestTimeout))

		api.Get("/health", h.Health.Live)
		api.Get("/ready", h.Health.Ready)

		api.Group(func(limited chi.Router) {
			limited.Use(rateLimitMiddleware.Handler)

			limited.Route("/auth", func(auth chi.Router) {
				auth.Post("/login", h.Auth.Login)
				auth.Post("/register", h.Auth.Register)
				auth.With(authMiddleware.RequireAuth).Get("/me", h.Auth.Me)
			})

			limited.Route("/candidates", func(candidates chi.Router) {
				candidates.Use(authMiddleware.RequireAuth)

				candidates.Get("/", h.Candidate.List)
				candidates.Post("/", h.Candidate.Create)
				candidates.Get("/search", h.Candidate.Search)
				candidates.Get("/{id}", h.Candidate.Get)
				candidates.Put("/{id}", h.Candidate.Update)
				candidates.Delete("/{id}", h.Candidate.Delete)
			})
		})
	})

	return r
}
