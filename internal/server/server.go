// Package server exposes neighbour searches over HTTP.
//
// Routes:
//
//	GET /                                     greeting, client IP and masked settings
//	GET /healthz                              liveness probe
//	GET /error                                always fails, exercises the error path
//	GET /github/repos/{owner}/{repo}          REST search (sequential or concurrent)
//	GET /github/repos/{owner}/{repo}/graphql  bulk query search
//
// Failures are answered as {"detail": ..., "code": ...} with the upstream
// status when the error carries one.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/benjaminlong/mergify-algos/pkg/config"
	"github.com/benjaminlong/mergify-algos/pkg/neighbours"
)

// ShutdownTimeout bounds how long in-flight requests may finish after the
// serve context is cancelled.
const ShutdownTimeout = 30 * time.Second

// Server answers neighbour searches with a shared Finder.
type Server struct {
	cfg    *config.Config
	finder *neighbours.Finder
	logger *log.Logger
	router chi.Router
}

// New builds a server. A nil logger uses log.Default().
func New(cfg *config.Config, finder *neighbours.Finder, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{cfg: cfg, finder: finder, logger: logger}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/error", s.handleError)

	r.Get("/github/repos/{owner}/{repo}", s.handleNeighbours)
	r.Get("/github/repos/{owner}/{repo}/graphql", s.handleGraphQL)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Detail: "Not Found"})
	})
	return r
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
