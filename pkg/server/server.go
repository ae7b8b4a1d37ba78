package server

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/lineage/pkg/config"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/pipeline"
	"github.com/matzehuels/lineage/pkg/session"
	"github.com/matzehuels/lineage/pkg/source"
)

// Defaults for [Options].
const (
	DefaultAddr            = ":8080"
	DefaultCleanupInterval = time.Minute
	DefaultMaxSessions     = 1000
	shutdownTimeout        = 5 * time.Second
)

// Options configure a [Server].
type Options struct {
	// Addr is the listen address.
	Addr string

	// Viewport sizes the page and bounds its zoom.
	Viewport config.Viewport

	// Pipeline holds layout and animation settings for new sessions and
	// the defaults of export requests.
	Pipeline pipeline.Options

	// Runner renders exports. Defaults to an uncached runner.
	Runner *pipeline.Runner

	// Store keeps sessions. Defaults to a MemoryStore of MaxSessions.
	Store       session.Store
	MaxSessions int

	// CleanupInterval is the period of the expired-session sweep.
	CleanupInterval time.Duration

	// Watch reloads the tree when a file source changes.
	Watch bool

	Logger *log.Logger
}

// Server is the interactive host.
type Server struct {
	opts   Options
	loader source.Loader
	runner *pipeline.Runner
	store  session.Store
	hub    *Hub
	logger *log.Logger
	router chi.Router

	mu  sync.RWMutex
	rec *family.Record
}

// New loads the tree from loader and builds the router.
func New(ctx context.Context, loader source.Loader, opts Options) (*Server, error) {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = DefaultCleanupInterval
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = DefaultMaxSessions
	}
	if opts.Viewport.Width == 0 {
		opts.Viewport = config.Default().Viewport
	}
	opts.Pipeline.Logger = opts.Logger
	if err := opts.Pipeline.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore(opts.MaxSessions)
	}

	rec, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}

	s := &Server{
		opts:   opts,
		loader: loader,
		runner: opts.Runner,
		store:  opts.Store,
		hub:    NewHub(opts.Logger),
		logger: opts.Logger,
		rec:    rec,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// Hub returns the reload notification hub.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observe(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Handle("/assets/*", http.StripPrefix("/assets/", assetHandler()))
	r.Get("/healthz", s.handleHealth)
	r.Get("/events", s.hub.ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sid}", func(r chi.Router) {
			r.Post("/toggle/{id}", s.handleToggle)
			r.Get("/bio/{id}", s.handleBio)
			r.Delete("/", s.handleDeleteSession)
		})
		r.Get("/export.{format}", s.handleExport)
	})
	return r
}

// Record returns the current family tree.
func (s *Server) Record() *family.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rec
}

// Reload fetches the tree again. Sessions already open keep the tree they
// were built from; pages pick up the new one when they reload.
func (s *Server) Reload(ctx context.Context) error {
	rec, err := s.loader.Load(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.rec = rec
	s.mu.Unlock()
	s.logger.Info("reloaded family tree", "source", s.loader.Locator(), "persons", rec.Count())
	s.hub.Broadcast()
	return nil
}

// Run serves until ctx is cancelled or a background task fails. The file
// watcher is set up first so a watch failure returns before anything listens.
func (s *Server) Run(ctx context.Context) error {
	var watcher *Watcher
	if f, ok := s.loader.(*source.File); ok && s.opts.Watch {
		w, err := NewWatcher(f.Path(), s.Reload, s.logger)
		if err != nil {
			if closeErr := s.store.Close(); closeErr != nil {
				s.logger.Warn("close session store", "error", closeErr)
			}
			return err
		}
		watcher = w
	}

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("serving", "addr", s.opts.Addr, "source", s.loader.Locator())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		s.hub.Close()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return s.sweep(ctx) })

	if watcher != nil {
		g.Go(func() error { return watcher.Run(ctx) })
	}

	err := g.Wait()
	if closeErr := s.store.Close(); err == nil {
		err = closeErr
	}
	return err
}

func (s *Server) sweep(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := s.store.Cleanup(ctx)
			if err != nil {
				s.logger.Warn("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
