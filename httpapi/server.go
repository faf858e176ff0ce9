// Package httpapi exposes the review pipeline over HTTP.
package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"review-sentiment/metrics"
)

// Server is the echo HTTP server of the review API
type Server struct {
	echo *echo.Echo
	log  *slog.Logger
}

// NewServer creates a Server with its middleware chain and routes
func NewServer(svc ReviewAnalyzer, reg *prometheus.Registry, logger *slog.Logger) *Server {
	log := logger.With("component", "httpapi")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(log)

	// metrics wraps AccessLog so it sees the status written for handler errors
	e.Use(middleware.Recover())
	e.Use(RequestID())
	e.Use(metrics.NewHTTPMetrics(reg).Middleware())
	e.Use(AccessLog(log))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		ExposeHeaders: []string{requestIDHeader},
	}))

	h := NewHandler(svc)
	e.GET("/apple/reviews", h.AppleReviews)
	e.GET("/google/reviews", h.GoogleReviews)
	e.POST("/sentiments", h.Sentiments)
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(reg)))

	return &Server{echo: e, log: log}
}

// ServeHTTP makes the Server usable as an http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called
func (s *Server) Start(addr string) error {
	s.log.Info("starting server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("shutting down server")
	return s.echo.Shutdown(ctx)
}
