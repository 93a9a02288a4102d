package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mcoot/gamehub/internal/dependencies/clock"
	"github.com/mcoot/gamehub/internal/devserver"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// A missing .env file is fine
	_ = godotenv.Load()

	cfg, err := configFromEnv(devserver.DefaultConfig())
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handler, err := devserver.NewHandler(cfg, clock.New(), logger)
	if err != nil {
		logger.Error("failed to create handler", slog.String("error", err.Error()))
		os.Exit(1)
	}

	server := devserver.NewServer(handler, cfg, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("dev backend started", slog.String("addr", server.Addr()))

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("dev backend stopped")
}

// configFromEnv applies PORT, JWT_SECRET, ADMIN_KEY and BCRYPT_COST
func configFromEnv(cfg devserver.Config) (devserver.Config, error) {
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return cfg, err
		}
		cfg.Port = p
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		cfg.JWTSecret = secret
	}
	if key := os.Getenv("ADMIN_KEY"); key != "" {
		cfg.AdminKey = key
	}
	if cost := os.Getenv("BCRYPT_COST"); cost != "" {
		c, err := strconv.Atoi(cost)
		if err != nil {
			return cfg, err
		}
		cfg.BcryptCost = c
	}
	return cfg, nil
}
