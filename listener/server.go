package listener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// ReadHeaderTimeout is the default timeout for reading request headers.
const ReadHeaderTimeout = 10 * time.Second

// Server runs one named inspection listener.
type Server struct {
	name     string
	config   Config
	routes   []string
	http     *http.Server
	listener net.Listener
	logger   *slog.Logger
	onFatal  func()
}

// NewServer validates cfg after applying defaults and prepares an http.Server
// for handler. When handler is a chi router its routes are reported by Routes
// and logged on start. onFatal, if non-nil, runs when serving stops with an
// error other than a regular shutdown.
func NewServer(name string, handler http.Handler, cfg Config, logger *slog.Logger, onFatal func()) (*Server, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	if handler == nil {
		return nil, ErrNilHandler
	}

	if logger == nil {
		logger = slog.Default()
	}

	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Server{
		name:   name,
		config: cfg,
		routes: routesOf(handler),
		http: &http.Server{ //nolint:exhaustruct // only relevant fields needed
			Addr:              cfg.Address,
			Handler:           handler,
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
		logger:  logger.With(slog.String("listener", name)),
		onFatal: onFatal,
	}, nil
}

// Routes lists "METHOD /pattern" for every route of a chi handler.
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

// Address returns the bound address once started, the configured one before.
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.config.Address
}

// Start binds the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var listenCfg net.ListenConfig

	listener, err := listenCfg.Listen(ctx, "tcp", s.config.Address)
	if err != nil {
		s.logger.Error("failed to listen", slog.String("address", s.config.Address), slog.String("error", err.Error()))

		return fmt.Errorf("%w: %w", ErrListenFailed, err)
	}

	s.listener = listener

	s.logger.Info("serving configuration inspection",
		slog.String("address", listener.Addr().String()),
		slog.Duration("request_timeout", s.config.RequestTimeout),
		slog.Any("routes", s.routes))

	go s.serve(listener)

	return nil
}

func (s *Server) serve(listener net.Listener) {
	err := s.http.Serve(listener)
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}

	s.logger.Error("inspection listener failed", slog.String("error", err.Error()))

	if s.onFatal != nil {
		s.onFatal()
	}
}

// Stop drains in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping configuration inspection")

	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("shutdown failed", slog.String("error", err.Error()))

		return fmt.Errorf("%w: %w", ErrShutdownFailed, err)
	}

	return nil
}

func routesOf(handler http.Handler) []string {
	router, ok := handler.(chi.Routes)
	if !ok {
		return nil
	}

	var routes []string

	_ = chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+route)

		return nil
	})

	return routes
}
