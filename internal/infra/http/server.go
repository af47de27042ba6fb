package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"yt-podcast-bot/internal/config"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Pinger reports whether a dependency is reachable.
type Pinger func(ctx context.Context) error

// Server exposes liveness, readiness and prometheus metrics.
type Server struct {
	cfg    *config.AdminConfig
	ping   Pinger
	server *http.Server
	log    *zerolog.Logger
}

// NewServer builds the server. ping may be nil, /health then only reports liveness.
func NewServer(cfg *config.AdminConfig, ping Pinger, logger *zerolog.Logger) *Server {
	l := logger.With().Str("component", "http").Logger()
	s := &Server{cfg: cfg, ping: ping, log: &l}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start blocks until the server stops. A clean Shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.ping(ctx); err != nil {
			s.log.Warn().Err(err).Msg("health check failed")
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "OK")
}
