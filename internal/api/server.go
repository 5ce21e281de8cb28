// Package api provides the HTTP API server and handlers for PromptDeck.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/promptdeck/promptdeck-server/internal/config"
	"github.com/promptdeck/promptdeck-server/internal/ratelimit"
	"github.com/promptdeck/promptdeck-server/internal/store"
	"github.com/promptdeck/promptdeck-server/internal/validation"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// Server holds dependencies for HTTP handlers.
type Server struct {
	store             store.Store
	services          *Services
	cfg               *config.Config
	router            *chi.Mux
	api               huma.API
	logger            *slog.Logger
	validator         *validation.Validator
	importRateLimiter *ratelimit.KeyedRateLimiter
	searchRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, st store.Store, services *Services, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(cfg.Auth))

	humaConfig := huma.DefaultConfig(cfg.Server.Name, Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:   "http",
			Scheme: "bearer",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	importRate := cfg.Import.RatePerMinute
	if importRate <= 0 {
		importRate = 6
	}

	s := &Server{
		store:             st,
		services:          services,
		cfg:               cfg,
		router:            router,
		api:               api,
		logger:            logger,
		validator:         validation.New(),
		importRateLimiter: ratelimit.New(float64(importRate)/60, importRate),
		searchRateLimiter: ratelimit.New(10, 30),
	}

	s.registerHealthRoutes()
	s.registerCategoryRoutes()
	s.registerGroupRoutes()
	s.registerPromptRoutes()
	s.registerProjectRoutes()
	s.registerSettingsRoutes()
	s.registerImportRoutes()
	s.registerExportRoutes()
	s.registerSearchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
