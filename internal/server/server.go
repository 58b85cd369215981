// Package server exposes the layout pipeline over HTTP.
//
// Endpoints:
//
//	GET  /healthz              liveness and build version
//	GET  /v1/palettes          builtin palettes and color strategies
//	GET  /v1/stats             event counters since startup
//	POST /v1/layout            resolved layout document as JSON
//	POST /v1/render/{format}   a single rendered output
//
// Request bodies carry the pipeline options plus either a decoded "input"
// diagram or a raw "source" string in the given "format".
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/regionmap/pkg/observability"
	"github.com/matzehuels/regionmap/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address used when none is configured.
	DefaultAddr = ":8080"

	// DefaultMaxBodyBytes limits request bodies.
	DefaultMaxBodyBytes = 4 << 20

	// DefaultTimeout bounds a single request.
	DefaultTimeout = 60 * time.Second
)

// Config configures a [Server].
type Config struct {
	Addr         string
	MaxBodyBytes int64
	Timeout      time.Duration

	// Defaults are the base options every request overrides.
	Defaults pipeline.Options
}

// Server serves the HTTP API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
	router chi.Router
	stats  *observability.Stats
}

// New creates a server around a pipeline runner.
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	s := &Server{runner: runner, logger: logger, cfg: cfg, stats: observability.NewStats()}
	observability.Register(s.stats)
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/palettes", s.handlePalettes)
		r.Get("/stats", s.handleStats)
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
