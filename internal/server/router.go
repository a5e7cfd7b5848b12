package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/docsage/docsage/internal/api/handlers"
	"github.com/docsage/docsage/internal/api/middleware"
)

type RouterConfig struct {
	HealthHandler *handlers.HealthHandler
	QueryHandler  *handlers.QueryHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	const maxBodyBytes int64 = 1 * 1024 * 1024

	r.Use(middleware.RequestID)
	r.Use(middleware.SentryMiddleware)
	r.Use(middleware.AccessLog)
	r.Use(middleware.MaxBodyBytes(maxBodyBytes))

	r.Get("/health", cfg.HealthHandler.Health)
	r.Post("/query", cfg.QueryHandler.Query)
	r.Post("/retrieve", cfg.QueryHandler.Retrieve)

	return r
}
