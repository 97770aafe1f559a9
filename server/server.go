// Package server runs the StateService over HTTP/1.1 and cleartext HTTP/2.
//
// The server initializes from configuration via New, opening the configured
// store. Functional options allow tests to override any component.
//
//	srv, err := server.New(ctx, cfg)
//	err = srv.Run(ctx) // serves until ctx is cancelled
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/statewire/api"
	"github.com/tailored-agentic-units/statewire/config"
	"github.com/tailored-agentic-units/statewire/observability"
	"github.com/tailored-agentic-units/statewire/serialization"
	"github.com/tailored-agentic-units/statewire/store"
	"github.com/tailored-agentic-units/statewire/version"
)

const readHeaderTimeout = 10 * time.Second

// Option configures a Server before its store is opened.
type Option func(*Server)

// WithStore uses s instead of opening the configured backend.
func WithStore(s store.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithSerializer overrides the default serializer.
func WithSerializer(ser *serialization.Serializer) Option {
	return func(srv *Server) { srv.serializer = ser }
}

// WithObserver overrides the default SlogObserver.
func WithObserver(o observability.Observer) Option {
	return func(srv *Server) { srv.observer = o }
}

// WithListener serves on l instead of listening on the configured address.
func WithListener(l net.Listener) Option {
	return func(srv *Server) { srv.listener = l }
}

// Server hosts the StateService.
type Server struct {
	cfg        *config.Config
	store      store.Store
	closeStore func() error
	serializer *serialization.Serializer
	observer   observability.Observer
	listener   net.Listener
	handler    http.Handler
}

// New creates a Server from configuration. Options are applied first, so a
// store supplied with WithStore is used as is and the configured backend
// is never opened.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	srv := &Server{
		cfg:        cfg,
		observer:   observability.NewSlogObserver(slog.Default()),
		closeStore: func() error { return nil },
	}
	for _, opt := range opts {
		opt(srv)
	}

	if srv.serializer == nil {
		srv.serializer = serialization.New(serialization.WithObserver(srv.observer))
	}

	if srv.store == nil {
		s, closer, err := store.Open(ctx, &cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		srv.store = s
		srv.closeStore = closer
	}
	srv.store = store.Observe(srv.store, cfg.Store.Backend, srv.observer)

	mux := http.NewServeMux()
	path, handler := api.NewHandler(srv.store, srv.serializer, api.WithObserver(srv.observer))
	mux.Handle(path, handler)
	mux.HandleFunc("GET /healthz", healthz)

	srv.handler = h2c.NewHandler(mux, &http2.Server{})
	return srv, nil
}

// Handler returns the server's root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Store returns the store the server writes to.
func (s *Server) Store() store.Store {
	return s.store
}

// Run serves until ctx is cancelled or the listener fails, then shuts down
// within the configured timeout and closes the store.
func (s *Server) Run(ctx context.Context) error {
	ln := s.listener
	if ln == nil {
		var err error
		ln, err = net.Listen("tcp", s.cfg.Server.Addr)
		if err != nil {
			return errors.Join(fmt.Errorf("failed to listen: %w", err), s.closeStore())
		}
	}

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	s.emit(ctx, EventStart, observability.LevelInfo, map[string]any{
		"addr":    ln.Addr().String(),
		"store":   s.cfg.Store.Backend,
		"version": version.Version(),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	if closeErr := s.closeStore(); closeErr != nil {
		err = errors.Join(err, fmt.Errorf("close store: %w", closeErr))
	}

	if err != nil {
		s.emit(ctx, EventError, observability.LevelError, map[string]any{"error": err.Error()})
		return err
	}
	s.emit(ctx, EventStop, observability.LevelInfo, nil)
	return nil
}

func (s *Server) emit(ctx context.Context, t observability.EventType, level observability.Level, data map[string]any) {
	s.observer.OnEvent(ctx, observability.Event{
		Type:      t,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "server.Run",
		Data:      data,
	})
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "ok %s\n", version.Version())
}
