package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nerrad567/volumed/internal/infrastructure/config"
	"github.com/nerrad567/volumed/internal/infrastructure/logging"
	"github.com/nerrad567/volumed/internal/infrastructure/mqtt"
	"github.com/nerrad567/volumed/internal/volume"
)

// gracefulShutdownTimeout is how long Close waits for in-flight requests.
const gracefulShutdownTimeout = 10 * time.Second

// Server is the HTTP API server for volumed.
//
// It owns the router, middleware chain, and the http.Server lifecycle. All
// domain work is delegated to the volume controller and history repository;
// handlers are a pure translation layer between HTTP and those components.
type Server struct {
	cfg        config.APIConfig
	logger     *logging.Logger
	controller *volume.Controller
	history    volume.HistoryRepository
	broker     *mqtt.Client
	version    string

	httpServer *http.Server
}

// Deps contains the dependencies required to construct a Server.
type Deps struct {
	// Config is the API section of the loaded configuration.
	Config config.APIConfig

	// Logger for request logging and handler errors. Required.
	Logger *logging.Logger

	// Controller is the shared volume controller. Required.
	Controller *volume.Controller

	// History records volume changes and serves GET /volume/history.
	// May be nil; the history route then returns 404.
	History volume.HistoryRepository

	// Broker receives retained volume state publishes on successful sets.
	// May be nil; publishing is then skipped.
	Broker *mqtt.Client

	// Version is reported in the index page.
	Version string
}

// New creates a new API server.
//
// Returns an error if a required dependency is missing.
func New(deps Deps) (*Server, error) {
	if deps.Logger == nil {
		return nil, errors.New("api: logger is required")
	}
	if deps.Controller == nil {
		return nil, errors.New("api: volume controller is required")
	}

	s := &Server{
		cfg:        deps.Config,
		logger:     deps.Logger.With("component", "api"),
		controller: deps.Controller,
		history:    deps.History,
		broker:     deps.Broker,
		version:    deps.Version,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", deps.Config.Host, deps.Config.Port),
		Handler:      s.routes(),
		ReadTimeout:  time.Duration(deps.Config.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(deps.Config.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(deps.Config.Timeouts.Idle) * time.Second,
	}

	return s, nil
}

// Start begins serving HTTP requests in a background goroutine.
//
// It returns immediately; serve errors other than http.ErrServerClosed are
// logged. Use Close for graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	// Stop serving when the parent context is cancelled.
	go func() {
		<-ctx.Done()
		if err := s.Close(); err != nil {
			s.logger.Error("HTTP server shutdown error", "error", err)
		}
	}()

	return nil
}

// Close gracefully shuts down the HTTP server, waiting up to
// gracefulShutdownTimeout for in-flight requests to complete.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
