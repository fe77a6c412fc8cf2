//go:build integration

package integration

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/repo/spanstore"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/tests/testutil"
)

func TestHierarchyRepository_ChildrenAndParents(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	uow := committer.NewCommitter(client)
	hierarchy := spanstore.NewHierarchyRepo()
	products := spanstore.NewProductRepo()

	parent := testutil.CreateTestProduct(t, client, "Parent")
	child := testutil.CreateTestProduct(t, client, "Child")
	testutil.LinkTestProducts(t, client, parent, child)

	err := uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		children, err := hierarchy.Children(ctx, tx, parent)
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, child, children[0].ID)
		assert.Equal(t, "Child", children[0].Name)

		parents, err := hierarchy.ParentIDs(ctx, tx, child)
		require.NoError(t, err)
		assert.Equal(t, []string{parent}, parents)

		p, err := products.GetByID(ctx, tx, parent)
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.ChildrenCount)
		return nil
	})
	require.NoError(t, err)
}

func TestHierarchyRepository_FindEdgeIgnoresDeleted(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	uow := committer.NewCommitter(client)
	hierarchy := spanstore.NewHierarchyRepo()

	parent := testutil.CreateTestProduct(t, client, "Parent")
	child := testutil.CreateTestProduct(t, client, "Child")
	testutil.LinkTestProducts(t, client, parent, child)

	require.NoError(t, uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		edge, err := hierarchy.FindEdge(ctx, tx, parent, child)
		if err != nil {
			return err
		}
		edge.Deleted = true
		return hierarchy.Update(ctx, tx, edge)
	}))

	err := uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		_, err := hierarchy.FindEdge(ctx, tx, parent, child)
		assert.ErrorIs(t, err, domain.ErrEdgeNotFound)
		return nil
	})
	require.NoError(t, err)
}
