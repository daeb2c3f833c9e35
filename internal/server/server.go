// Package server provides the HTTP REST API standing in for the
// interactive form surface: it accepts generation requests, runs each on
// its own background worker, and reports outcomes.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"golang.org/x/sync/errgroup"

	"github.com/obarouni/jobforge/internal/config"
	"github.com/obarouni/jobforge/internal/history"
	"github.com/obarouni/jobforge/internal/pipeline"
	"github.com/obarouni/jobforge/internal/registry"
	"github.com/obarouni/jobforge/internal/templates"
	"github.com/obarouni/jobforge/internal/types"
)

// Run statuses reported by GET /runs/{id}.
const (
	StatusRunning = "running"
	StatusDone    = "done"
)

// runState tracks one in-flight or finished generation request.
type runState struct {
	Status  string         `json:"status"`
	Outcome *types.Outcome `json:"outcome,omitempty"`
}

// Server owns the HTTP surface and the per-request worker lifecycle.
// The registry and resolver are read-only after construction, so workers
// share them without locking; the runs map is the only mutable state.
type Server struct {
	httpServer *http.Server
	cfg        *config.Config
	registry   *registry.Registry
	resolver   *templates.Resolver
	store      *history.Store
	markdown   goldmark.Markdown

	mu   sync.Mutex
	runs map[string]*runState
}

// New creates a server instance. store may be nil when run history is
// disabled.
func New(cfg *config.Config, reg *registry.Registry, resolver *templates.Resolver, store *history.Store) *Server {
	s := &Server{
		cfg:      cfg,
		registry: reg,
		resolver: resolver,
		store:    store,
		markdown: goldmark.New(),
		runs:     make(map[string]*runState),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /modules", s.handleModules)
	mux.HandleFunc("POST /runs", s.handleCreateRun)
	mux.HandleFunc("GET /runs", s.handleListRuns)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)
	mux.HandleFunc("GET /runs/{id}/notes", s.handleRunNotes)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withLogging(s.withCORS(mux)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Handler exposes the configured handler chain, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// startRun spawns the dedicated background worker for one request and
// returns its run id immediately.
func (s *Server) startRun(opts pipeline.Options) string {
	id := uuid.NewString()
	opts.RunID = id

	state := &runState{Status: StatusRunning}
	s.mu.Lock()
	s.runs[id] = state
	s.mu.Unlock()

	go func() {
		outcome := pipeline.Run(context.Background(), opts)
		s.mu.Lock()
		state.Status = StatusDone
		state.Outcome = outcome
		s.mu.Unlock()
	}()

	return id
}
