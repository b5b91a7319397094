// Package api serves canonicalization and the molecule registry over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness and build info
//	POST /v1/canonicalize         molfile body or JSON request, returns the key
//	POST /v1/batch                several molfiles, returns keys and duplicates
//	POST /v1/registry             canonicalize and register
//	GET  /v1/registry?key=...     look up a key; without key, list all entries
//	GET  /v1/registry/count       number of registered molecules
//	GET  /metrics                 Prometheus metrics
//
// Canonical keys contain "/", so they travel as a query parameter rather
// than a path segment.
package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/molcanon/pkg/pipeline"
	"github.com/matzehuels/molcanon/pkg/registry"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 4 << 20

// Options configures a Server.
type Options struct {
	// Defaults fill fields a request leaves unset.
	Defaults pipeline.Options
	// Workers bounds concurrency for batch requests.
	Workers int
	// Timeout bounds one request's work; zero disables it.
	Timeout time.Duration
	// Metrics, when set, is served on /metrics and instruments every route.
	Metrics *Metrics
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	runner *pipeline.Runner
	store  registry.Store
	logger *log.Logger
	opts   Options
}

// New creates a server. A nil store disables the registry routes.
func New(runner *pipeline.Runner, store registry.Store, logger *log.Logger, opts Options) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if opts.Workers <= 0 {
		opts.Workers = pipeline.DefaultWorkers
	}
	return &Server{runner: runner, store: store, logger: logger, opts: opts}
}

// Handler builds the chi router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if s.opts.Metrics != nil {
		r.Use(s.opts.Metrics.instrument)
	}
	if s.opts.Timeout > 0 {
		r.Use(middleware.Timeout(s.opts.Timeout))
	}

	r.Get("/healthz", s.handleHealth)
	if s.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.opts.Metrics.Handler())
	}

	r.Route("/v1", func(r chi.Router) {
		r.Post("/canonicalize", s.handleCanonicalize)
		r.Post("/batch", s.handleBatch)
		r.Route("/registry", func(r chi.Router) {
			r.Post("/", s.handleRegister)
			r.Get("/", s.handleRegistryGet)
			r.Get("/count", s.handleRegistryCount)
		})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: apiError{
			Code:      "NOT_FOUND",
			Message:   "no route for " + r.Method + " " + r.URL.Path,
			RequestID: middleware.GetReqID(r.Context()),
		}})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
