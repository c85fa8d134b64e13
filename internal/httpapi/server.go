// Package httpapi exposes the analysis pipeline over HTTP. The surface is
// small: submit a batch, fetch archived runs, health and metrics.
package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/flipwell/compintel/internal/cache"
	"github.com/flipwell/compintel/internal/config"
	"github.com/flipwell/compintel/internal/persistence"
	"github.com/flipwell/compintel/internal/pipeline"
	"github.com/flipwell/compintel/internal/sources"
	"github.com/flipwell/compintel/internal/telemetry"
)

// Server wires the analyzer and its optional collaborators behind a router.
// Cache, archive, and fetcher may be nil; the endpoints degrade accordingly.
type Server struct {
	router   *mux.Router
	server   *http.Server
	analyzer *pipeline.Analyzer
	cfg      *config.Config
	cache    *cache.ReportCache
	archive  persistence.RunArchive
	fetcher  *sources.Client
	tel      *telemetry.Registry
}

// NewServer builds the HTTP server around the analyzer.
func NewServer(cfg *config.Config, analyzer *pipeline.Analyzer, reportCache *cache.ReportCache, archive persistence.RunArchive, fetcher *sources.Client, tel *telemetry.Registry) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		analyzer: analyzer,
		cfg:      cfg,
		cache:    reportCache,
		archive:  archive,
		fetcher:  fetcher,
		tel:      tel,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(jsonContentTypeMiddleware)
	api.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
	api.HandleFunc("/runs", s.handleListRuns).Methods("GET")
	api.HandleFunc("/runs/{id}", s.handleGetRun).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	if s.tel != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.tel.Gatherer(), promhttp.HandlerOpts{}))
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server until Shutdown or failure.
func (s *Server) Start() error {
	log.Info().Str("addr", s.cfg.Addr()).Msg("http server starting")
	return s.server.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		requestID, _ := r.Context().Value(requestIDKey).(string)
		log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func jsonContentTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// responseWrapper captures the status code for request logging.
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
