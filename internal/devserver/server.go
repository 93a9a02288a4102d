package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/devserver/backend"
)

// Config holds configuration for the dev backend
type Config struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	JWTSecret  string
	TokenTTL   time.Duration
	AdminKey   string
	BcryptCost int
}

// DefaultConfig returns defaults matching the development endpoint table
func DefaultConfig() Config {
	return Config{
		Host:            "",
		Port:            5000,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		JWTSecret:       "gamehub-dev-secret",
		TokenTTL:        24 * time.Hour,
		AdminKey:        "gamehub-admin",
		BcryptCost:      10,
	}
}

// NewHandler builds the seeded backend state and its router
func NewHandler(cfg Config, clk clock.Clock, logger *slog.Logger) (http.Handler, error) {
	accounts, err := backend.NewAccounts(cfg.AdminKey, cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to seed accounts: %w", err)
	}

	return NewRouter(RouterConfig{
		Logger:   logger,
		Accounts: accounts,
		Tokens:   backend.NewTokens(cfg.JWTSecret, cfg.TokenTTL, clk),
		Games:    backend.NewGames(clk),
	}), nil
}

// Server wraps the HTTP server with graceful shutdown support
type Server struct {
	server *http.Server
	logger *slog.Logger
	config Config
}

// NewServer creates a new dev backend server
func NewServer(handler http.Handler, config Config, logger *slog.Logger) *Server {
	return &Server{
		server: &http.Server{
			Addr:         net.JoinHostPort(config.Host, fmt.Sprint(config.Port)),
			Handler:      handler,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
		},
		logger: logger,
		config: config,
	}
}

// Start begins listening for HTTP requests
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	s.logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the server's listen address
func (s *Server) Addr() string {
	return s.server.Addr
}
