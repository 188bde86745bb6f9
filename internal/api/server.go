// Package api provides the HTTP facade of the Bookhaven server.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/bookhavenapp/bookhaven-server/internal/auth"
	"github.com/bookhavenapp/bookhaven-server/internal/ratelimit"
	"github.com/bookhavenapp/bookhaven-server/internal/service"
	"github.com/bookhavenapp/bookhaven-server/internal/store"
	"github.com/bookhavenapp/bookhaven-server/internal/validation"
)

// Services groups the business services consumed by the facade.
type Services struct {
	Auth           *service.AuthService
	Catalog        *service.CatalogService
	Library        *service.LibraryService
	Recommendation *service.RecommendationService
	Rating         *service.RatingService
}

// Server is the HTTP facade. All operations are registered as huma
// operations on a chi router.
type Server struct {
	store           store.Store
	services        *Services
	tokens          *auth.TokenService
	router          *chi.Mux
	api             huma.API
	logger          *slog.Logger
	validator       *validation.Validator
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates the HTTP facade with all routes configured.
func NewServer(st store.Store, services *Services, tokens *auth.TokenService, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(requestIDMiddleware)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	router.Use(authMiddleware(tokens))

	humaConfig := huma.DefaultConfig("Bookhaven API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:     st,
		services:  services,
		tokens:    tokens,
		router:    router,
		api:       api,
		logger:    logger,
		validator: validation.New(),
		// Login attempts per client IP.
		authRateLimiter: ratelimit.New(20.0/60.0, 10),
	}

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerCatalogRoutes()
	s.registerLibraryRoutes()
	s.registerRecommendationRoutes()
	s.registerRatingRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestIDMiddleware attaches a trace ID to every request, echoing a
// caller-supplied X-Request-ID when present.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
