package list_jobs

import (
	"context"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// DefaultLimit caps the pending jobs returned when no limit is given.
const DefaultLimit = 100

// Request selects jobs. A ParentID lists the jobs it spawned, otherwise the
// pending queue is listed.
type Request struct {
	ParentID string
	Limit    int
}

// Query handles the list jobs query use case.
type Query struct {
	uow  committer.UnitOfWork
	jobs contracts.JobRepository
}

// NewQuery creates a new list jobs query.
func NewQuery(uow committer.UnitOfWork, jobs contracts.JobRepository) *Query {
	return &Query{
		uow:  uow,
		jobs: jobs,
	}
}

// Execute lists jobs in submission order.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*domain.Job, error) {
	var out []*domain.Job
	err := q.uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		var err error
		if req.ParentID != "" {
			out, err = q.jobs.ListByParent(ctx, tx, req.ParentID)
			return err
		}
		limit := req.Limit
		if limit <= 0 {
			limit = DefaultLimit
		}
		out, err = q.jobs.ListPending(ctx, tx, limit)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
