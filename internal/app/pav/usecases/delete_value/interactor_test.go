package delete_value_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/pavtest"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/delete_value"
	"github.com/light-bringer/pav-service/internal/pkg/actor"
)

func seeded(t *testing.T) *pavtest.Fixture {
	t.Helper()
	f := pavtest.New()
	f.Products("p", "c")
	f.Mem.Link("p", "c", false)
	f.Attribute("color", domain.TypeVarchar)
	f.Varchar("pv", "p", "color", "red")
	f.Varchar("cv", "c", "color", "green")
	return f
}

func TestDelete_CascadesToCounterparts(t *testing.T) {
	f := seeded(t)
	ctx := actor.With(context.Background(), "u1")

	require.NoError(t, f.Delete.Execute(ctx, &delete_value.Request{ID: "pv"}))

	pv, _ := f.Mem.Value("pv")
	assert.True(t, pv.Deleted)
	assert.Equal(t, "u1", pv.ModifiedByID)

	// counterparts are deleted regardless of their value
	valueJobs := f.JobsOf(domain.EntityValue)
	require.Len(t, valueJobs, 1)
	assert.Equal(t, domain.ActionDelete, valueJobs[0].Action)
	assert.Equal(t, "cv", valueJobs[0].EntityID)

	cv, _ := f.Mem.Value("cv")
	assert.False(t, cv.Deleted)
}

func TestDelete_SimpleRemove(t *testing.T) {
	f := seeded(t)

	require.NoError(t, f.Delete.Execute(context.Background(), &delete_value.Request{ID: "pv", SimpleRemove: true}))
	assert.Empty(t, f.Mem.Jobs())
	assert.Len(t, f.Mem.LiveValues(), 1)
}

func TestDelete_NotFound(t *testing.T) {
	f := seeded(t)

	require.NoError(t, f.Delete.Execute(context.Background(), &delete_value.Request{ID: "pv"}))
	err := f.Delete.Execute(context.Background(), &delete_value.Request{ID: "pv"})
	require.ErrorIs(t, err, domain.ErrValueNotFound)
}
