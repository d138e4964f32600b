package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/cors"
	"golang.org/x/sync/errgroup"

	"github.com/sig-0/pricecast/registry"
	"github.com/sig-0/pricecast/schedule"
	"github.com/sig-0/pricecast/server/config"
	"github.com/sig-0/pricecast/storage"
)

// HealthFn reports the current cycle health
type HealthFn func() schedule.Health

var noopLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var errNilRegistry = errors.New("nil registry")

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

type Server struct {
	logger *slog.Logger
	config *config.Config

	storage  storage.Storage
	registry *registry.Registry
	health   HealthFn

	mux *chi.Mux
}

// New creates a new server instance
func New(storage storage.Storage, reg *registry.Registry, opts ...Option) (*Server, error) {
	if reg == nil {
		return nil, errNilRegistry
	}

	s := &Server{
		logger:   noopLogger,
		storage:  storage,
		registry: reg,
		config:   config.DefaultConfig(),
		mux:      chi.NewMux(),
	}

	// Apply the options
	for _, opt := range opts {
		opt(s)
	}

	// Validate the configuration
	if err := config.ValidateConfig(s.config); err != nil {
		return nil, fmt.Errorf("invalid configuration, %w", err)
	}

	// Set up the CORS middleware
	if s.config.CORSConfig != nil {
		corsMiddleware := cors.New(cors.Options{
			AllowedOrigins: s.config.CORSConfig.AllowedOrigins,
			AllowedMethods: s.config.CORSConfig.AllowedMethods,
			AllowedHeaders: s.config.CORSConfig.AllowedHeaders,
		})

		s.mux.Use(corsMiddleware.Handler)
	}

	s.mux.Use(httplog.RequestLogger(s.logger, &httplog.Options{
		Level:         slog.LevelInfo,
		Schema:        httplog.SchemaOTEL,
		RecoverPanics: true,
		Skip: func(r *http.Request, respStatus int) bool {
			return respStatus == 404 || respStatus == 405 || r.URL.Path == "/health"
		},
	}))

	// Register the health check handler
	s.mux.Get("/health", s.Health)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/prices", s.Prices)
		r.Get("/prices/{category}", s.Price)
		r.Get("/categories", s.Categories)
	})

	s.mux.Get(openAPIPath, s.OpenAPI)
	s.mux.Get(docsPath, s.Docs)

	return s, nil
}

// Handler returns the server's root handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Serve listens on the configured address and serves the status API
// until the context is canceled
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("unable to listen on %s: %w", s.config.ListenAddress, err)
	}

	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.mux,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	group, gCtx := errgroup.WithContext(ctx)

	group.Go(func() error {
		s.logger.Info(
			"status API started",
			"address", ln.Addr().String(),
		)

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	})

	group.Go(func() error {
		<-gCtx.Done()

		defer s.logger.Info("status API shut down")

		shutdownCtx, cancelFn := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancelFn()

		return srv.Shutdown(shutdownCtx)
	})

	return group.Wait()
}
