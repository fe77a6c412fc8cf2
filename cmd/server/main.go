package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/config"
	"github.com/light-bringer/pav-service/internal/pkg/logger"
	"github.com/light-bringer/pav-service/internal/services"
	httphandler "github.com/light-bringer/pav-service/internal/transport/http"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	lg.Info("starting attribute value service",
		zap.String("backend", string(cfg.Backend)),
		zap.String("spanner_database", cfg.SpannerDatabase),
		zap.String("http_port", cfg.HTTPPort),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, lg)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 3. The memory backend has no separate runner process
	if cfg.Backend == config.BackendMemory {
		go func() {
			if err := serviceOpts.Runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				lg.Error("job runner stopped", zap.Error(err))
			}
		}()
	}

	// 4. Start HTTP server in background
	e := httphandler.NewServer(serviceOpts.Handler(), serviceOpts.Catalog, lg)
	errCh := make(chan error, 1)
	go func() {
		lg.Info("HTTP server listening", zap.String("port", cfg.HTTPPort))
		if err := e.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// 5. Graceful shutdown handling
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	}

	lg.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		lg.Error("HTTP server shutdown error", zap.Error(err))
	}
	return nil
}
