package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/spanner"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/cleanup_jobs"
	"github.com/light-bringer/pav-service/internal/config"
	"github.com/light-bringer/pav-service/internal/models/m_job"
	"github.com/light-bringer/pav-service/internal/pkg/logger"
	"github.com/light-bringer/pav-service/internal/services"
)

func main() {
	retention := flag.Duration("retention", 0, "Keep done and canceled jobs younger than this (defaults to jobs.retention)")
	dryRun := flag.Bool("dry-run", false, "Show what would be deleted without actually deleting")
	flag.Parse()

	if err := run(*retention, *dryRun); err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}
}

func run(retention time.Duration, dryRun bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Backend != config.BackendSpanner {
		return errors.New("job cleanup needs the spanner backend")
	}
	if retention == 0 {
		retention = cfg.JobRetention
	}

	lg, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx := context.Background()
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, lg)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	lg.Info("starting job cleanup",
		zap.Duration("retention", retention),
		zap.Bool("dry_run", dryRun),
	)

	if dryRun {
		return dryRunCleanup(ctx, serviceOpts.SpannerClient, time.Now().UTC().Add(-retention), lg)
	}

	_, err = serviceOpts.CleanupJobs.Execute(ctx, &cleanup_jobs.Request{Retention: retention})
	return err
}

func dryRunCleanup(ctx context.Context, client *spanner.Client, cutoff time.Time, lg *zap.Logger) error {
	stmt := spanner.Statement{
		SQL: `SELECT ` + m_job.Status + `, COUNT(*) AS count
			FROM ` + m_job.TableName + `
			WHERE ` + m_job.Status + ` IN UNNEST(@statuses) AND ` + m_job.UpdatedAt + ` < @cutoff
			GROUP BY ` + m_job.Status,
		Params: map[string]interface{}{
			"statuses": []string{string(domain.JobDone), string(domain.JobCanceled)},
			"cutoff":   cutoff,
		},
	}

	iter := client.Single().Query(ctx, stmt)
	defer iter.Stop()

	var total int64
	for {
		row, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to query jobs: %w", err)
		}

		var status string
		var count int64
		if err := row.Columns(&status, &count); err != nil {
			return fmt.Errorf("failed to parse row: %w", err)
		}
		lg.Info("would delete jobs", zap.String("status", status), zap.Int64("count", count))
		total += count
	}

	lg.Info("dry run finished", zap.Int64("total", total), zap.Time("cutoff", cutoff))
	return nil
}
