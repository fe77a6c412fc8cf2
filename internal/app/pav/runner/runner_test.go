package runner_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/pavtest"
	"github.com/light-bringer/pav-service/internal/app/pav/runner"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/update_value"
	"github.com/light-bringer/pav-service/internal/pkg/actor"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

func setup(t *testing.T) (*pavtest.Fixture, *runner.Runner) {
	t.Helper()
	f := pavtest.New()
	f.Products("p", "c", "g")
	f.Mem.Link("p", "c", false)
	f.Mem.Link("c", "g", false)
	f.Attribute("color", domain.TypeVarchar)
	f.Varchar("pv", "p", "color", "red")
	f.Varchar("cv", "c", "color", "red")
	f.Varchar("gv", "g", "color", "red")

	r := runner.New(runner.Deps{
		UnitOfWork: f.Mem,
		Jobs:       f.Mem.JobRepo(),
		Products:   f.Mem.ProductRepo(),
		Create:     f.Create,
		Update:     f.Update,
		Delete:     f.Delete,
		Clock:      f.Clock,
	}, runner.Config{BatchSize: 10})
	return f, r
}

func updateParent(t *testing.T, f *pavtest.Fixture) {
	t.Helper()
	ctx := actor.With(context.Background(), "u1")
	_, err := f.Update.Execute(ctx, &update_value.Request{ID: "pv", Input: &domain.Input{Value: domain.Raw("blue")}})
	require.NoError(t, err)
	require.Len(t, f.Mem.Jobs(), 4)
}

func TestRunOnce_AppliesCascade(t *testing.T) {
	f, r := setup(t)
	updateParent(t, f)

	n, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	for _, id := range []string{"cv", "gv"} {
		v, _ := f.Mem.Value(id)
		assert.Equal(t, "blue", *v.VarcharValue, id)
		assert.Equal(t, "u1", v.ModifiedByID, id)
	}
	for _, job := range f.Mem.Jobs() {
		assert.Equal(t, domain.JobDone, job.Status)
	}

	// replayed jobs do not cascade again
	assert.Len(t, f.Mem.Jobs(), 4)

	g, _ := f.Mem.Product("g")
	assert.Equal(t, "u1", g.ModifiedByID)

	n, err = r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunOnce_FailureCancelsDescendants(t *testing.T) {
	f, r := setup(t)
	updateParent(t, f)

	cv, _ := f.Mem.Value("cv")
	cv.Deleted = true
	f.Mem.PutValue(cv)

	n, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	jobs := f.Mem.Jobs()
	assert.Equal(t, domain.JobFailed, jobs[0].Status)
	assert.Contains(t, jobs[0].Error, domain.ErrValueNotFound.Error())
	for _, job := range jobs[1:] {
		assert.Equal(t, domain.JobCanceled, job.Status)
		assert.NotEmpty(t, job.Error)
	}

	gv, _ := f.Mem.Value("gv")
	assert.Equal(t, "red", *gv.VarcharValue)
}

func TestRunOnce_UnsupportedJob(t *testing.T) {
	f, r := setup(t)
	err := f.Mem.Do(context.Background(), nil, func(ctx context.Context, tx committer.Tx) error {
		_, err := f.Queue.PushDelete(ctx, tx, domain.EntityProduct, "p", "")
		return err
	})
	require.NoError(t, err)

	n, err := r.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	jobs := f.Mem.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.JobFailed, jobs[0].Status)
	assert.Contains(t, jobs[0].Error, runner.ErrUnsupportedJob.Error())

	_, ok := f.Mem.Product("p")
	assert.True(t, ok)
}

func TestRun_StopsOnCancel(t *testing.T) {
	_, r := setup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.NoError(t, r.Run(ctx))
}
