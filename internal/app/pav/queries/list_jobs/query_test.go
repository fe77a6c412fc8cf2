package list_jobs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/list_jobs"
	"github.com/light-bringer/pav-service/internal/app/pav/repo/memstore"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

func TestListJobs(t *testing.T) {
	ctx := context.Background()
	mem := memstore.New()
	require.NoError(t, mem.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		for _, j := range []*domain.Job{
			{ID: "j1", Status: domain.JobPending},
			{ID: "j2", Status: domain.JobPending, ParentID: "j1"},
			{ID: "j3", Status: domain.JobDone, ParentID: "j1"},
			{ID: "j4", Status: domain.JobPending},
		} {
			if err := mem.JobRepo().Insert(ctx, tx, j); err != nil {
				return err
			}
		}
		return nil
	}))
	q := list_jobs.NewQuery(mem, mem.JobRepo())

	pending, err := q.Execute(ctx, &list_jobs.Request{Limit: 2})
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, "j1", pending[0].ID)
	assert.Equal(t, "j2", pending[1].ID)

	children, err := q.Execute(ctx, &list_jobs.Request{ParentID: "j1"})
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "j3", children[1].ID)
}
