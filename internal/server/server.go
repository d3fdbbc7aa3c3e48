// Package server exposes report generation over HTTP: an upload form, a
// preview endpoint and one download endpoint per report kind.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/leapdoi/internal/config"
	"github.com/leapstack-labs/leapdoi/internal/engine"
	"golang.org/x/sync/errgroup"
)

// Server serves the upload form and report API.
type Server struct {
	addr      string
	engine    *engine.Engine
	maxUpload int64
	shutdown  time.Duration
	logger    *slog.Logger
}

// Config holds configuration for the server.
type Config struct {
	Addr     string
	Settings *config.Settings
	// MaxUploadBytes caps the size of a request body
	MaxUploadBytes  int64
	ShutdownTimeout time.Duration
	Logger          *slog.Logger
}

// NewServer creates a server. Zero values fall back to defaults.
func NewServer(cfg Config) *Server {
	s := &Server{
		addr:      cfg.Addr,
		maxUpload: cfg.MaxUploadBytes,
		shutdown:  cfg.ShutdownTimeout,
		logger:    cfg.Logger,
	}
	if s.maxUpload <= 0 {
		s.maxUpload = 32 << 20
	}
	if s.shutdown <= 0 {
		s.shutdown = 5 * time.Second
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	s.engine = engine.New(engine.Config{Settings: cfg.Settings, Logger: s.logger})
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	h := newHandlers(s.engine, s.maxUpload, s.logger)
	r.Get("/", h.Index)
	r.Get("/healthz", h.Healthz)
	r.Route("/api", func(r chi.Router) {
		r.Post("/preview", h.Preview)
		r.Post("/reports/tract-based", h.TractReport)
		r.Post("/reports/unit-based", h.UnitReport)
	})
	return r
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled, then shuts
// down gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
