// SPDX-License-Identifier: MIT

// Package api serves the Stremio addon protocol over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/ManuGH/arteloo/internal/addon"
	"github.com/ManuGH/arteloo/internal/api/middleware"
	"github.com/ManuGH/arteloo/internal/cache"
	"github.com/ManuGH/arteloo/internal/health"
	xglog "github.com/ManuGH/arteloo/internal/log"
)

// Config holds HTTP server settings.
type Config struct {
	ListenAddr         string
	PublicURL          string
	RateLimitPerMinute int
	ReadHeaderTimeout  time.Duration
	ShutdownTimeout    time.Duration
	// TracingService names server spans; empty disables HTTP tracing.
	TracingService string
}

// Server exposes the addon service, health endpoints and metrics.
type Server struct {
	cfg    Config
	addon  *addon.Service
	health *health.Manager
	store  cache.Cache
	router chi.Router
	logger zerolog.Logger
}

// New wires the router. store may be nil when caching is disabled.
func New(cfg Config, svc *addon.Service, hm *health.Manager, store cache.Cache) *Server {
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if store == nil {
		store = cache.NewNoOpCache()
	}

	s := &Server{
		cfg:    cfg,
		addon:  svc,
		health: hm,
		store:  store,
		logger: xglog.WithComponent("api"),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := middleware.NewRouter(middleware.StackConfig{
		AllowedOrigins:     []string{"*"},
		EnableMetrics:      true,
		TracingService:     s.cfg.TracingService,
		EnableLogging:      true,
		RateLimitPerMinute: s.cfg.RateLimitPerMinute,
	})

	r.Get("/manifest.json", s.handleManifest)
	r.Get("/catalog/{type}/{id}", s.handleCatalog)
	r.Get("/catalog/{type}/{id}/{extra}", s.handleCatalog)
	r.Get("/meta/{type}/{id}", s.handleMeta)
	r.Get("/stream/{type}/{id}", s.handleStream)

	r.Get("/health", s.health.ServeHealth)
	r.Get("/ready", s.health.ServeReady)
	r.Get("/stats", s.handleStats)
	r.Handle("/metrics", promhttp.Handler())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusNotFound, map[string]string{"error": "not_found"})
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on cfg.ListenAddr until ctx is cancelled, then drains
// in-flight requests for at most cfg.ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	s.logger.Info().
		Str(xglog.FieldEvent, "server.started").
		Str("addr", ln.Addr().String()).
		Str("manifest", s.cfg.PublicURL+"/manifest.json").
		Msg("addon server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info().Str(xglog.FieldEvent, "server.stopping").Msg("shutting down addon server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	s.logger.Info().Str(xglog.FieldEvent, "server.stopped").Msg("addon server stopped")
	return nil
}
