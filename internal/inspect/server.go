// Package inspect exposes a read-only HTTP view of a running Kernel: a
// health check and a snapshot of the current flow graph, for a scenario
// runner started with an inspection address.
package inspect

import (
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cschladetsch/asyncflow-go/kernel"
)

// Server is a read-only HTTP introspection surface over a Kernel.
type Server struct {
	router    chi.Router
	logger    *slog.Logger
	startTime time.Time
	kernel    *kernel.Kernel
}

// New builds a Server with every route registered, ready to serve.
func New(k *kernel.Kernel, logger *slog.Logger) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		logger:    logger.With("component", "inspect"),
		startTime: time.Now(),
		kernel:    k,
	}
	s.routes()
	return s
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe blocks serving on addr until the underlying
// http.ListenAndServe returns an error, e.g. because addr is already in
// use. It takes no context and offers no shutdown hook.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(s.logger))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/tree", s.handleTree)
		r.Get("/tree/{id}", s.handleNode)
	})
}

type healthResponse struct {
	Status    string `json:"status"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
	Breaking  bool   `json:"breaking"`
	Waiting   bool   `json:"waiting"`
	Faulted   bool   `json:"faulted"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, requestIDFromContext(r.Context()), healthResponse{
		Status:    "healthy",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(s.startTime).Round(time.Second).String(),
		Breaking:  s.kernel.IsBreaking(),
		Waiting:   s.kernel.IsWaiting(),
		Faulted:   s.kernel.IsFaulted(),
	})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	respondOK(w, requestIDFromContext(r.Context()), buildTree(s.kernel.Root()))
}

func (s *Server) handleNode(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	reqID := requestIDFromContext(r.Context())

	found := findGenerator(s.kernel.Root(), id)
	if found == nil {
		respondError(w, reqID, http.StatusNotFound, "no node with id "+id)
		return
	}
	respondOK(w, reqID, buildTree(found))
}
