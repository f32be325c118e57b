// Package api implements the HTTP surface of lineagraph.
//
// The server is session based: a client POSTs a graph payload once, gets a
// session ID back, and then asks for traversals, layouts, and exports of
// that graph by ID. Sessions live in memory with a TTL; the graph of record
// stays in the catalog that produced the payload.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/datamaplabs/lineagraph/internal/config"
	"github.com/datamaplabs/lineagraph/pkg/observability"
	"github.com/datamaplabs/lineagraph/pkg/pipeline"
)

// Server wires the pipeline runner and session store into HTTP handlers.
type Server struct {
	logger   *log.Logger
	runner   *pipeline.Runner
	sessions *SessionStore
	defaults config.LayoutConfig
}

// NewServer creates a server. The runner carries the cache; sessionTTL
// bounds how long an uploaded graph stays resident between requests.
func NewServer(logger *log.Logger, runner *pipeline.Runner, sessionTTL time.Duration, defaults config.LayoutConfig) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		logger:   logger,
		runner:   runner,
		sessions: NewSessionStore(sessionTTL),
		defaults: defaults,
	}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1/graphs", func(r chi.Router) {
		r.Post("/", s.handleCreateGraph)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Delete("/", s.handleDeleteGraph)
			r.Get("/paths", s.handlePaths)
			r.Get("/layout", s.handleLayout)
			r.Get("/export", s.handleExport)
		})
	})

	return r
}

// Close releases the session store. The runner's cache is owned by the
// caller that constructed the runner.
func (s *Server) Close() {
	s.sessions.Close()
}

// requestLogger logs each request and feeds the HTTP observability hooks.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", elapsed)
	})
}
