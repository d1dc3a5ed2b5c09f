// Package server is the HTTP API consumed by the documentation browser: it
// serves the navigation data file, the tree and index endpoints, search and
// the scan report.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/docnav/docnav/internal/daemon"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves the browser-facing HTTP API by proxying the daemon.
type Server struct {
	router chi.Router
	client *daemon.Client
	log    *slog.Logger
}

// New creates and configures the HTTP server.
func New(client *daemon.Client, log *slog.Logger) *Server {
	s := &Server{
		client: client,
		log:    log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/nav-data.js", s.handleNavData)

	r.Route("/api", func(r chi.Router) {
		r.Get("/nav", s.handleNav)
		r.Get("/hierarchy", s.handleHierarchy)
		r.Get("/index", s.handleIndex)
		r.Get("/search", s.handleSearch)
		r.Get("/sites", s.handleSites)
	})

	r.Get("/report", s.handleReport)

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// RequestLogger logs incoming requests.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: 200}
			next.ServeHTTP(sw, r)
			log.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
