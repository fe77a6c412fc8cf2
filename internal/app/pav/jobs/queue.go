// Package jobs implements the pseudo transaction queue cascades write to.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/actor"
	"github.com/light-bringer/pav-service/internal/pkg/clock"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/internal/pkg/metrics"
)

// Queue enqueues jobs inside the caller's unit of work. Jobs become visible to
// the runner only when that unit of work commits.
type Queue struct {
	repo  contracts.JobRepository
	clock clock.Clock
}

var _ contracts.JobQueue = (*Queue)(nil)

// NewQueue creates a new Queue.
func NewQueue(repo contracts.JobRepository, clock clock.Clock) *Queue {
	return &Queue{repo: repo, clock: clock}
}

// PushCreate enqueues the creation of an entity.
func (q *Queue) PushCreate(ctx context.Context, tx committer.Tx, entityType string, input *domain.Input, parentID string) (string, error) {
	return q.push(ctx, tx, entityType, domain.ActionCreate, "", input, parentID)
}

// PushUpdate enqueues an update of an entity.
func (q *Queue) PushUpdate(ctx context.Context, tx committer.Tx, entityType, entityID string, input *domain.Input, parentID string) (string, error) {
	return q.push(ctx, tx, entityType, domain.ActionUpdate, entityID, input, parentID)
}

// PushDelete enqueues the deletion of an entity.
func (q *Queue) PushDelete(ctx context.Context, tx committer.Tx, entityType, entityID, parentID string) (string, error) {
	return q.push(ctx, tx, entityType, domain.ActionDelete, entityID, nil, parentID)
}

func (q *Queue) push(ctx context.Context, tx committer.Tx, entityType string, action domain.JobAction, entityID string, input *domain.Input, parentID string) (string, error) {
	var payload json.RawMessage
	if input != nil {
		raw, err := json.Marshal(input)
		if err != nil {
			return "", fmt.Errorf("failed to encode job input: %w", err)
		}
		payload = raw
	}

	now := q.clock.Now()
	job := &domain.Job{
		ID:         uuid.New().String(),
		Sequence:   tx.Next(),
		EntityType: entityType,
		Action:     action,
		EntityID:   entityID,
		Input:      payload,
		ParentID:   parentID,
		Status:     domain.JobPending,
		ActorID:    actor.From(ctx),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := q.repo.Insert(ctx, tx, job); err != nil {
		return "", fmt.Errorf("failed to enqueue %s %s job: %w", action, entityType, err)
	}

	metrics.RecordJobEnqueued(entityType, string(action))
	return job.ID, nil
}
