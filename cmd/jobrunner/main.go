package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/config"
	"github.com/light-bringer/pav-service/internal/pkg/logger"
	"github.com/light-bringer/pav-service/internal/services"
)

func main() {
	once := flag.Bool("once", false, "Run a single batch of pending jobs and exit")
	flag.Parse()

	if err := run(*once); err != nil {
		log.Fatalf("Job runner failed: %v", err)
	}
}

func run(once bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	lg, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serviceOpts, err := services.NewServiceOptions(ctx, cfg, lg)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	if once {
		n, err := serviceOpts.Runner.RunOnce(ctx)
		if err != nil {
			return err
		}
		lg.Info("processed pending jobs", zap.Int("count", n))
		return nil
	}

	if err := serviceOpts.Runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
