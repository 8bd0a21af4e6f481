// Package server provides the HTTP API for verification requests.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"meridian-hq/meridian/pkg/audit/recorder"
	"meridian-hq/meridian/pkg/compliance/engine"
	"meridian-hq/meridian/pkg/config"
	"meridian-hq/meridian/pkg/protocol/manager"
	"meridian-hq/meridian/pkg/review"
	"meridian-hq/meridian/pkg/telemetry/metrics"
)

// Server is the HTTP server exposing the verification API.
type Server struct {
	config     *config.ServerConfig
	engine     *engine.Engine
	rules      *manager.Manager
	recorder   *recorder.Recorder
	reviews    *review.Service
	collector  *metrics.Collector
	metricsCfg *config.MetricsConfig

	httpServer   *http.Server
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// Options carries the optional collaborators for a Server. The engine is
// required; everything else degrades gracefully when nil (no protocols, no
// audit trail, no review queue, no metrics).
type Options struct {
	Rules      *manager.Manager
	Recorder   *recorder.Recorder
	Reviews    *review.Service
	Collector  *metrics.Collector
	MetricsCfg *config.MetricsConfig
}

// NewServer creates a verification server.
func NewServer(cfg *config.ServerConfig, eng *engine.Engine, opts Options) *Server {
	return &Server{
		config:     cfg,
		engine:     eng,
		rules:      opts.Rules,
		recorder:   opts.Recorder,
		reviews:    opts.Reviews,
		collector:  opts.Collector,
		metricsCfg: opts.MetricsCfg,
	}
}

// Start starts the HTTP server and blocks until shutdown, which is
// triggered by context cancellation or SIGINT/SIGTERM.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	handler := s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         s.config.ListenAddress,
		Handler:      handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting verification server", "address", s.config.ListenAddress)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("verification server stopped")
	})

	return shutdownErr
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /v1/verify", s.handleVerify())
	mux.Handle("POST /v1/rules/validate", s.handleValidateRules())
	mux.Handle("GET /healthz", s.handleHealth())

	if s.collector != nil && s.metricsCfg != nil && s.metricsCfg.Enabled {
		mux.Handle("GET "+s.metricsCfg.Path, s.collector.Handler())
	}

	var handler http.Handler = mux
	handler = RequestIDMiddleware(handler)
	handler = LoggingMiddleware(handler)
	handler = RecoveryMiddleware(handler)

	return handler
}

// Handler returns the configured HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
