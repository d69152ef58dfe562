package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/conexus/internal/httpserver/deps"
	"github.com/MrSnakeDoc/conexus/internal/httpserver/handlers"
)

func init() { Register(registerHealthCheck, middleware.NoCache) }

func registerHealthCheck(r chi.Router, d deps.Deps) {
	r.Get("/health_check", handlers.HealthCheck(d))
}
