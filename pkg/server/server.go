// Package server exposes chain search and contract checking over HTTP.
//
// Routes:
//
//	GET    /healthz                  liveness and build info
//	POST   /graphs                   upload a JSON graph, returns its snapshot
//	GET    /graphs/{id}              fetch a snapshot
//	DELETE /graphs/{id}              remove a snapshot
//	POST   /graphs/{id}/chains       shortest chains between two modules
//	POST   /graphs/{id}/check        check a TOML contract file
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// with "error", "code" and "request_id" fields; the HTTP status follows the
// error code.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/importchain/pkg/cache"
	"github.com/matzehuels/importchain/pkg/store"
)

const (
	readTimeout     = 30 * time.Second
	writeTimeout    = 60 * time.Second
	idleTimeout     = 120 * time.Second
	shutdownTimeout = 10 * time.Second

	// DefaultMaxBody bounds request bodies.
	DefaultMaxBody = 32 << 20
)

// Options configures a [Server].
type Options struct {
	// Store holds uploaded graphs. Defaults to a [store.MemoryStore].
	Store store.GraphStore
	// Cache memoizes chain searches. Keys are scoped to the API so a
	// cache shared with the CLI never mixes entries. Defaults to no caching.
	Cache cache.Cache
	// Logger receives request logs. Defaults to a discard logger.
	Logger *log.Logger
	// Workers bounds concurrent searches per contract check.
	Workers int
	// MaxBody bounds request bodies in bytes. Defaults to DefaultMaxBody.
	MaxBody int64
}

// Server is the HTTP API.
type Server struct {
	store   store.GraphStore
	cache   cache.Cache
	keyer   cache.Keyer
	logger  *log.Logger
	workers int
	maxBody int64
}

// New creates a server.
func New(opts Options) *Server {
	s := &Server{
		store:   opts.Store,
		cache:   opts.Cache,
		keyer:   cache.NewScopedKeyer(cache.NewDefaultKeyer(), "api:"),
		logger:  opts.Logger,
		workers: opts.Workers,
		maxBody: opts.MaxBody,
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.cache == nil {
		s.cache = cache.NewNullCache()
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBody
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(s.limitBody)

	r.Get("/healthz", s.handleHealth)
	r.Route("/graphs", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGet)
			r.Delete("/", s.handleDelete)
			r.Post("/chains", s.handleChains)
			r.Post("/check", s.handleCheck)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
