package cleanup_jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/repo/memstore"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/cleanup_jobs"
	"github.com/light-bringer/pav-service/internal/pkg/clock"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

func TestCleanupJobs(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	old := now.Add(-48 * time.Hour)

	mem := memstore.New()
	seed := []*domain.Job{
		{ID: "done-old", Status: domain.JobDone, UpdatedAt: old},
		{ID: "canceled-old", Status: domain.JobCanceled, UpdatedAt: old},
		{ID: "failed-old", Status: domain.JobFailed, UpdatedAt: old},
		{ID: "pending-old", Status: domain.JobPending, UpdatedAt: old},
		{ID: "done-recent", Status: domain.JobDone, UpdatedAt: now.Add(-time.Hour)},
	}
	require.NoError(t, mem.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		for _, j := range seed {
			if err := mem.JobRepo().Insert(ctx, tx, j); err != nil {
				return err
			}
		}
		return nil
	}))

	uc := cleanup_jobs.NewInteractor(mem, mem.JobRepo(), clock.NewMockClock(now), zap.NewNop())
	n, err := uc.Execute(ctx, &cleanup_jobs.Request{Retention: 24 * time.Hour})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var left []string
	for _, j := range mem.Jobs() {
		left = append(left, j.ID)
	}
	assert.ElementsMatch(t, []string{"failed-old", "pending-old", "done-recent"}, left)
}

func TestCleanupJobs_RejectsNonPositiveRetention(t *testing.T) {
	mem := memstore.New()
	uc := cleanup_jobs.NewInteractor(mem, mem.JobRepo(), clock.NewRealClock(), zap.NewNop())
	_, err := uc.Execute(context.Background(), &cleanup_jobs.Request{})
	assert.Error(t, err)
}
