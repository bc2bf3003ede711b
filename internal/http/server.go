// Package http provides the HTTP server implementation and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Option configures optional server behavior.
type Option func(*Server)

// WithCORS enables CORS handling for the given comma-separated origin list.
func WithCORS(enabled bool, allowOrigins string) Option {
	return func(s *Server) {
		s.corsEnabled = enabled
		s.corsAllowOrigins = allowOrigins
	}
}

// WithMiddleware appends a middleware applied to every route.
func WithMiddleware(mw gin.HandlerFunc) Option {
	return func(s *Server) {
		if mw != nil {
			s.extraMiddleware = append(s.extraMiddleware, mw)
		}
	}
}

// WithRoutes appends a route registration function invoked after the built-in
// health routes are mounted.
func WithRoutes(register func(*gin.Engine)) Option {
	return func(s *Server) {
		if register != nil {
			s.routeRegistrars = append(s.routeRegistrars, register)
		}
	}
}

// Server represents the main application HTTP server.
type Server struct {
	db     *sql.DB
	router *gin.Engine
	server *http.Server
	logger *slog.Logger

	corsEnabled      bool
	corsAllowOrigins string
	extraMiddleware  []gin.HandlerFunc
	routeRegistrars  []func(*gin.Engine)
}

// NewServer creates the HTTP server with its router fully configured.
// The db handle is used by the readiness probe and may be nil in tests.
func NewServer(db *sql.DB, host string, port int, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		db:     db,
		logger: logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))

	if corsMiddleware := createCORSMiddleware(s.corsEnabled, s.corsAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	for _, mw := range s.extraMiddleware {
		router.Use(mw)
	}

	router.Use(CustomLoggerMiddleware(logger))

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)
	router.GET("/hello", s.helloHandler)

	for _, register := range s.routeRegistrars {
		register(router)
	}

	s.router = router
	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// healthHandler reports process liveness.
func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports whether the server can serve traffic, checking
// database connectivity.
func (s *Server) readinessHandler(c *gin.Context) {
	components := gin.H{"database": "ok"}

	if s.db == nil {
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		components["database"] = "error"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": components,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": components,
	})
}

// helloHandler is an unauthenticated smoke-test endpoint.
func (s *Server) helloHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "hello"})
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
