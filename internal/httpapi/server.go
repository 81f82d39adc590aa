// Package httpapi serves the dashboard views as JSON, plus the admin user
// routes and the Prometheus endpoint.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ccdash/internal/metricsapi"
	"ccdash/internal/observability"
	"ccdash/internal/report"
	"ccdash/internal/views"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Renderer assembles views; *views.Assembler implements it.
type Renderer interface {
	Render(ctx context.Context, req views.Request) (report.View, error)
}

// Deps are the collaborators of the HTTP surface.
type Deps struct {
	Views Renderer
	Users metricsapi.Users
	// Refresh drops every cached API response and CSV parse.
	Refresh  func(ctx context.Context) error
	Verifier *Verifier
	// Charts adds Mermaid blocks to Markdown renders.
	Charts bool
}

// Server is the dashboard HTTP server.
type Server struct {
	deps   Deps
	schema *jsonschema.Schema
	router *mux.Router
	server *http.Server
}

// NewServer builds the router and the underlying http.Server.
func NewServer(addr string, deps Deps) *Server {
	if deps.Verifier == nil {
		deps.Verifier = NewVerifier("")
	}
	s := &Server{deps: deps, router: mux.NewRouter()}

	schema, err := jsonschema.For[views.Request](nil)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to infer request schema")
	}
	s.schema = schema

	s.routes()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       time.Minute,
	}
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(requestIDMiddleware, loggingMiddleware, recoveryMiddleware)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(observability.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	api.HandleFunc("/views", s.listViews).Methods(http.MethodGet)
	api.HandleFunc("/views/{view}", s.renderView).Methods(http.MethodGet)
	api.HandleFunc("/schema", s.requestSchema).Methods(http.MethodGet)
	api.HandleFunc("/cache/refresh", s.refresh).Methods(http.MethodPost)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
	admin.Use(s.deps.Verifier.RequireRole("admin"))
	admin.HandleFunc("/users", s.listUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users", s.createUser).Methods(http.MethodPost)
	admin.HandleFunc("/users/{id:[0-9]+}", s.updateUser).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id:[0-9]+}/deactivate", s.deactivateUser).Methods(http.MethodPatch)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Addr is the configured listen address.
func (s *Server) Addr() string { return s.server.Addr }

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for the active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "ok", nil)
}
