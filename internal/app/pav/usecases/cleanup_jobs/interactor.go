package cleanup_jobs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/pkg/clock"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request sets how long finished jobs are kept.
type Request struct {
	Retention time.Duration
}

// Interactor handles the job retention use case.
type Interactor struct {
	uow    committer.UnitOfWork
	jobs   contracts.JobRepository
	clock  clock.Clock
	logger *zap.Logger
}

// NewInteractor creates a new job retention interactor.
func NewInteractor(uow committer.UnitOfWork, jobs contracts.JobRepository, clock clock.Clock, logger *zap.Logger) *Interactor {
	return &Interactor{
		uow:    uow,
		jobs:   jobs,
		clock:  clock,
		logger: logger,
	}
}

// Execute deletes done and canceled jobs last updated before now minus the
// retention. Failed jobs are kept for inspection.
func (i *Interactor) Execute(ctx context.Context, req *Request) (int64, error) {
	if req.Retention <= 0 {
		return 0, fmt.Errorf("retention must be positive, got %s", req.Retention)
	}
	cutoff := i.clock.Now().Add(-req.Retention)

	var deleted int64
	err := i.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		var err error
		deleted, err = i.jobs.DeleteFinishedBefore(ctx, tx, cutoff)
		if err != nil {
			return fmt.Errorf("failed to delete finished jobs: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	i.logger.Info("finished jobs deleted",
		zap.Time("cutoff", cutoff),
		zap.Int64("jobs", deleted),
	)
	return deleted, nil
}
