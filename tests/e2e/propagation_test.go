package e2e

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/list_values"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/create_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/delete_value"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/update_value"
	"github.com/light-bringer/pav-service/internal/pkg/actor"
	"github.com/light-bringer/pav-service/tests/testutil"
)

func childValues(t *testing.T, ctx context.Context, q *list_values.Query, productID string) []string {
	t.Helper()
	values, err := q.Execute(ctx, &list_values.Request{ProductID: productID})
	require.NoError(t, err)
	out := make([]string, 0, len(values))
	for _, v := range values {
		s, _ := v.Value.(string)
		out = append(out, s)
	}
	return out
}

func TestCreateUpdateDelete_CascadeThroughJobs(t *testing.T) {
	opts, client, cleanup := setupTest(t)
	defer cleanup()

	ctx := actor.With(context.Background(), "u1")
	parent := testutil.CreateTestProduct(t, client, "Parent")
	child := testutil.CreateTestProduct(t, client, "Child")
	testutil.LinkTestProducts(t, client, parent, child)
	testutil.CreateTestAttribute(t, client, "color", "Color", string(domain.TypeVarchar))

	// 1. Create on the parent; the child is reached by a job
	resp, err := opts.Usecases.CreateValue.Execute(ctx, &create_value.Request{Input: &domain.Input{
		ProductID:   parent,
		AttributeID: "color",
		Value:       domain.Raw("red"),
	}})
	require.NoError(t, err)
	require.Len(t, resp.Values, 1)
	assert.Empty(t, childValues(t, ctx, opts.Usecases.ListValues, child))

	n, err := opts.Runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.Equal(t, []string{"red"}, childValues(t, ctx, opts.Usecases.ListValues, child))

	// 2. Update on the parent follows the inherited child
	_, err = opts.Usecases.UpdateValue.Execute(ctx, &update_value.Request{
		ID:    resp.Values[0].ID,
		Input: &domain.Input{Value: domain.Raw("blue")},
	})
	require.NoError(t, err)
	_, err = opts.Runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"blue"}, childValues(t, ctx, opts.Usecases.ListValues, child))

	// 3. Delete cascades as well
	require.NoError(t, opts.Usecases.DeleteValue.Execute(ctx, &delete_value.Request{ID: resp.Values[0].ID}))
	_, err = opts.Runner.RunOnce(ctx)
	require.NoError(t, err)
	assert.Empty(t, childValues(t, ctx, opts.Usecases.ListValues, child))

	assert.Zero(t, testutil.CountJobs(t, client, string(domain.JobPending)))
	assert.Zero(t, testutil.CountJobs(t, client, string(domain.JobFailed)))
}
