// ABOUTME: Huma API server configuration and setup
// ABOUTME: Provides OpenAPI documentation, CORS, request logging and the metrics endpoint

package api

import (
	"net/http"

	"otakubantu-api/api/middleware"
	"otakubantu-api/core/interfaces"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
)

const (
	apiTitle   = "OtakuBantu API"
	apiVersion = "1.0.0"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger interfaces.Logger

	// Observer records served requests; optional
	Observer middleware.HTTPObserver

	// MetricsHandler is mounted at /metrics when set
	MetricsHandler http.Handler
}

// NewAPI creates and configures a new Huma API instance
func NewAPI(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()

	// CORS first so preflight requests never reach logging or handlers
	router.Use(cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Retry-After", "X-Request-ID"},
		MaxAge:         300,
	}).Handler)

	router.Use(middleware.ClientIdentity())
	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger, cfg.Observer))
	}

	if cfg.MetricsHandler != nil {
		router.Handle("/metrics", cfg.MetricsHandler)
	}

	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Info.Description = "Resolves anime search, details, episode streams and listings across a primary API, mirrors and scraped fallbacks"

	// The OpenAPI spec is served at /openapi.json and the docs UI at /docs
	api := humachi.New(router, config)

	return api, router
}
