// Package runner executes pending pseudo transaction jobs.
//
// Jobs run one at a time in submission order, each in its own unit of work,
// through the same usecases the API calls, flagged as replays so that they do
// not cascade again. A failed job cancels every job it spawned.
package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/create_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/delete_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/update_value"
	"github.com/light-bringer/pav-service/internal/pkg/actor"
	"github.com/light-bringer/pav-service/internal/pkg/clock"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/internal/pkg/metrics"
)

// ErrUnsupportedJob is returned for jobs whose entity and action the runner
// cannot execute.
var ErrUnsupportedJob = errors.New("unsupported pseudo transaction job")

// Config controls batching and pacing.
type Config struct {
	BatchSize    int
	PollInterval time.Duration

	// RatePerSecond limits job executions; zero means unlimited.
	RatePerSecond float64
	Burst         int
}

// Deps are the collaborators of a Runner.
type Deps struct {
	UnitOfWork committer.UnitOfWork
	Jobs       contracts.JobRepository
	Products   contracts.ProductRepository
	Create     *create_value.Interactor
	Update     *update_value.Interactor
	Delete     *delete_value.Interactor
	Clock      clock.Clock
	Logger     *zap.Logger
}

// Runner polls and executes pending jobs.
type Runner struct {
	uow      committer.UnitOfWork
	jobs     contracts.JobRepository
	products contracts.ProductRepository
	create   *create_value.Interactor
	update   *update_value.Interactor
	remove   *delete_value.Interactor
	clock    clock.Clock
	logger   *zap.Logger

	limiter      *rate.Limiter
	batchSize    int
	pollInterval time.Duration
}

// New creates a new Runner.
func New(d Deps, cfg Config) *Runner {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	batch := cfg.BatchSize
	if batch <= 0 {
		batch = 100
	}
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = time.Second
	}
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		uow:          d.UnitOfWork,
		jobs:         d.Jobs,
		products:     d.Products,
		create:       d.Create,
		update:       d.Update,
		remove:       d.Delete,
		clock:        d.Clock,
		logger:       logger,
		limiter:      rate.NewLimiter(limit, burst),
		batchSize:    batch,
		pollInterval: poll,
	}
}

// Run processes jobs until ctx is canceled.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("job runner started",
		zap.Int("batch_size", r.batchSize),
		zap.Duration("poll_interval", r.pollInterval),
	)
	for {
		n, err := r.RunOnce(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			r.logger.Error("job batch failed", zap.Error(err))
		}
		if n > 0 {
			continue
		}

		select {
		case <-ctx.Done():
			r.logger.Info("job runner stopped")
			return nil
		case <-time.After(r.pollInterval):
		}
	}
}

// RunOnce executes one batch of pending jobs and returns how many it ran.
func (r *Runner) RunOnce(ctx context.Context) (int, error) {
	var pending []*domain.Job
	err := r.uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		var err error
		pending, err = r.jobs.ListPending(ctx, tx, r.batchSize)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("failed to list pending jobs: %w", err)
	}

	ran := 0
	for _, job := range pending {
		if err := r.limiter.Wait(ctx); err != nil {
			return ran, err
		}
		executed, err := r.process(ctx, job.ID)
		if err != nil {
			return ran, err
		}
		if executed {
			ran++
		}
	}
	return ran, nil
}

// process runs a single job. It reports false when the job was no longer
// pending, which happens when an earlier failure in the batch canceled it.
func (r *Runner) process(ctx context.Context, id string) (bool, error) {
	start := time.Now()
	ctx = context.WithoutCancel(ctx)

	var job *domain.Job
	runErr := r.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		var err error
		job, err = r.jobs.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if job.Status != domain.JobPending {
			return nil
		}

		ctx = actor.With(ctx, job.ActorID)
		if err := r.execute(ctx, tx, job); err != nil {
			return err
		}
		return r.jobs.SetStatus(ctx, tx, job.ID, domain.JobDone, "", r.clock.Now())
	})
	if job == nil {
		return false, fmt.Errorf("failed to load job %s: %w", id, runErr)
	}
	if job.Status != domain.JobPending {
		return false, nil
	}

	if runErr == nil {
		metrics.RecordJobProcessed(string(job.Action), string(domain.JobDone), time.Since(start))
		r.logger.Debug("job done",
			zap.String("job_id", job.ID),
			zap.String("entity_type", job.EntityType),
			zap.String("action", string(job.Action)),
		)
		return true, nil
	}

	metrics.RecordJobProcessed(string(job.Action), string(domain.JobFailed), time.Since(start))
	r.logger.Error("job failed",
		zap.String("job_id", job.ID),
		zap.String("entity_type", job.EntityType),
		zap.String("entity_id", job.EntityID),
		zap.String("action", string(job.Action)),
		zap.Error(runErr),
	)
	if err := r.fail(ctx, job, runErr); err != nil {
		return true, err
	}
	return true, nil
}

func (r *Runner) execute(ctx context.Context, tx committer.Tx, job *domain.Job) error {
	in, err := job.DecodeInput()
	if err != nil {
		return fmt.Errorf("failed to decode job input: %w", err)
	}

	switch job.EntityType {
	case domain.EntityValue:
		switch job.Action {
		case domain.ActionCreate:
			_, err = r.create.ExecuteIn(ctx, tx, &create_value.Request{Input: in, Replay: true})
		case domain.ActionUpdate:
			_, err = r.update.ExecuteIn(ctx, tx, &update_value.Request{ID: job.EntityID, Input: in, Replay: true})
		case domain.ActionDelete:
			err = r.remove.ExecuteIn(ctx, tx, &delete_value.Request{ID: job.EntityID, Replay: true})
		default:
			err = fmt.Errorf("%w: %s %s", ErrUnsupportedJob, job.EntityType, job.Action)
		}
		return err
	case domain.EntityProduct:
		if job.Action != domain.ActionUpdate {
			return fmt.Errorf("%w: %s %s", ErrUnsupportedJob, job.EntityType, job.Action)
		}
		return r.products.Touch(ctx, tx, job.EntityID, r.clock.Now(), actor.From(ctx))
	default:
		return fmt.Errorf("%w: %s %s", ErrUnsupportedJob, job.EntityType, job.Action)
	}
}

// fail marks the job failed and cancels its descendants in one unit of work.
func (r *Runner) fail(ctx context.Context, job *domain.Job, cause error) error {
	return r.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		now := r.clock.Now()
		if err := r.jobs.SetStatus(ctx, tx, job.ID, domain.JobFailed, cause.Error(), now); err != nil {
			return fmt.Errorf("failed to mark job failed: %w", err)
		}
		canceled, err := r.cancelDescendants(ctx, tx, job.ID, now)
		if err != nil {
			return err
		}
		if canceled > 0 {
			r.logger.Warn("descendant jobs canceled",
				zap.String("job_id", job.ID),
				zap.Int("canceled", canceled),
			)
		}
		return nil
	})
}

func (r *Runner) cancelDescendants(ctx context.Context, tx committer.Tx, parentID string, at time.Time) (int, error) {
	children, err := r.jobs.ListByParent(ctx, tx, parentID)
	if err != nil {
		return 0, fmt.Errorf("failed to list child jobs: %w", err)
	}

	canceled := 0
	for _, child := range children {
		if !child.IsFinished() {
			msg := "parent job " + parentID + " failed"
			if err := r.jobs.SetStatus(ctx, tx, child.ID, domain.JobCanceled, msg, at); err != nil {
				return canceled, fmt.Errorf("failed to cancel job: %w", err)
			}
			metrics.RecordJobProcessed(string(child.Action), string(domain.JobCanceled), 0)
			canceled++
		}
		n, err := r.cancelDescendants(ctx, tx, child.ID, at)
		canceled += n
		if err != nil {
			return canceled, err
		}
	}
	return canceled, nil
}
