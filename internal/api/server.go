// Package api provides the HTTP API server and handlers for the Inkwell
// platform.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/realtime"
	"github.com/inkwellapp/inkwell-server/internal/store/sqlite"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store        *sqlite.Store
	services     *Services
	buckets      *StorageBuckets
	sseHandler   *realtime.Handler
	router       *chi.Mux
	api          huma.API
	writeLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
// writeRPS and writeBurst bound the per-IP rate of write requests.
func NewServer(store *sqlite.Store, services *Services, buckets *StorageBuckets, sseManager *realtime.Manager, writeRPS float64, writeBurst int, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	humaConfig := huma.DefaultConfig("Inkwell API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	s := &Server{
		store:        store,
		services:     services,
		buckets:      buckets,
		router:       router,
		writeLimiter: ratelimit.New(writeRPS, writeBurst),
		logger:       logger,
	}

	s.sseHandler = realtime.NewHandler(sseManager, logger, s.resolveStreamUser)

	RegisterErrorHandler()
	s.setupMiddleware()
	// humachi.New registers huma's doc routes on the router, and chi
	// requires all middleware to be added before any route.
	s.api = humachi.New(router, humaConfig)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(RateLimitMiddleware(s.writeLimiter, s.logger))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerArticleRoutes()
	s.registerEngagementRoutes()
	s.registerFollowRoutes()
	s.registerNotificationRoutes()
	s.registerProfileRoutes()
	s.registerJobRoutes()
	s.registerEbookRoutes()
	s.registerUploadRoutes()

	// Realtime stream and static files sit outside huma; they're not
	// JSON request/response operations.
	s.router.Get("/api/v1/notifications/stream", s.sseHandler.ServeHTTP)
	s.router.Get("/files/{bucket}/{key}", s.handleServeFile)
}

// resolveStreamUser authenticates the SSE stream connection. EventSource
// can't set headers, so the token also rides in the query string.
func (s *Server) resolveStreamUser(r *http.Request) string {
	token := r.URL.Query().Get("token")
	if token == "" {
		authHeader := r.Header.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			token = authHeader[7:]
		}
	}
	if token == "" {
		return ""
	}

	claims, err := s.services.Auth.VerifyToken(token)
	if err != nil {
		return ""
	}
	return claims.UserID
}
