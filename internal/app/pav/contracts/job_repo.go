package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// JobQueue enqueues pseudo transaction jobs. Each push returns the id of the
// new job, which callers pass as parentID of the jobs it spawns.
type JobQueue interface {
	PushCreate(ctx context.Context, tx committer.Tx, entityType string, input *domain.Input, parentID string) (string, error)
	PushUpdate(ctx context.Context, tx committer.Tx, entityType, entityID string, input *domain.Input, parentID string) (string, error)
	PushDelete(ctx context.Context, tx committer.Tx, entityType, entityID, parentID string) (string, error)
}

// JobRepository persists pseudo transaction jobs.
type JobRepository interface {
	Insert(ctx context.Context, tx committer.Tx, job *domain.Job) error

	// GetByID returns domain.ErrJobNotFound for missing jobs.
	GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Job, error)

	// ListPending returns up to limit pending jobs in submission order.
	ListPending(ctx context.Context, tx committer.Tx, limit int) ([]*domain.Job, error)

	// ListByParent returns the jobs spawned by parentID.
	ListByParent(ctx context.Context, tx committer.Tx, parentID string) ([]*domain.Job, error)

	SetStatus(ctx context.Context, tx committer.Tx, id string, status domain.JobStatus, message string, at time.Time) error

	// DeleteFinishedBefore removes done and canceled jobs last updated before
	// the cutoff.
	DeleteFinishedBefore(ctx context.Context, tx committer.Tx, cutoff time.Time) (int64, error)
}
