package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/kaddem/internal/bootstrap"
	"github.com/yigit/kaddem/internal/config"
	"github.com/yigit/kaddem/internal/pkg/websocket"
)

// Server holds the state for the HTTP server.
type Server struct {
	config *config.Config
	router *gin.Engine
	hub    *websocket.Hub
	logger zerolog.Logger
	http   *http.Server

	stopHub context.CancelFunc
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(configPath string) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath, "api")
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Backend.Timeout)
	defer cancel()

	deps, err := bootstrap.BuildDependencies(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	return &Server{
		config: cfg,
		router: bootstrap.SetupRouter(cfg, deps, lgr),
		hub:    deps.Hub,
		logger: lgr,
	}, nil
}

// Handler exposes the router, used by tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	var hubCtx context.Context
	hubCtx, s.stopHub = context.WithCancel(context.Background())
	go s.hub.Run(hubCtx)

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: s.config.Backend.Timeout + 10*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Channel to listen for errors starting the server
	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(osSignals)

	// Block until we receive either a server error or an OS signal
	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	// Disconnect WebSocket clients first; Shutdown does not wait for hijacked connections
	if s.stopHub != nil {
		s.stopHub()
	}

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			return errors.New("server shutdown completed with errors")
		}
		s.logger.Info().Msg("HTTP server gracefully stopped.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	return nil
}
