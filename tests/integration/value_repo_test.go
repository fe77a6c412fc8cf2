//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/repo/spanstore"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/tests/testutil"
)

func newValue(id, productID string) *domain.Value {
	now := time.Now().UTC()
	return &domain.Value{
		ID:            id,
		ProductID:     productID,
		AttributeID:   "color",
		Scope:         domain.ScopeGlobal,
		Language:      domain.LanguageMain,
		AttributeType: domain.TypeVarchar,
		VarcharValue:  domain.Ptr("red"),
		CreatedAt:     now,
		ModifiedAt:    now,
	}
}

func TestValueRepository_InsertAndGet(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	uow := committer.NewCommitter(client)
	values := spanstore.NewValueRepo()
	productID := testutil.CreateTestProduct(t, client, "Shirt")

	err := uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		if err := values.Insert(ctx, tx, newValue("v1", productID)); err != nil {
			return err
		}
		// DML rows are visible to later reads of the same transaction
		got, err := values.GetByID(ctx, tx, "v1")
		require.NoError(t, err)
		assert.Equal(t, "red", *got.VarcharValue)
		return nil
	})
	require.NoError(t, err)
	testutil.AssertRowCount(t, client, "product_attribute_values", 1)

	err = uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		list, err := values.ListByProducts(ctx, tx, []string{productID})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "v1", list[0].ID)
		return nil
	})
	require.NoError(t, err)
}

func TestValueRepository_LiveKeyIsUnique(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	uow := committer.NewCommitter(client)
	values := spanstore.NewValueRepo()
	productID := testutil.CreateTestProduct(t, client, "Shirt")

	require.NoError(t, uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		return values.Insert(ctx, tx, newValue("v1", productID))
	}))

	err := uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		return values.Insert(ctx, tx, newValue("v2", productID))
	})
	assert.ErrorIs(t, err, contracts.ErrUniqueViolation)

	// a soft deleted row frees its key
	require.NoError(t, uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		if err := values.SoftDelete(ctx, tx, "v1", time.Now(), "u1"); err != nil {
			return err
		}
		return values.Insert(ctx, tx, newValue("v3", productID))
	}))
	testutil.AssertRowCount(t, client, "product_attribute_values", 2)
}

func TestValueRepository_FindDuplicate(t *testing.T) {
	client, cleanup := testutil.SetupSpannerTest(t)
	defer cleanup()

	ctx := context.Background()
	uow := committer.NewCommitter(client)
	values := spanstore.NewValueRepo()
	p1 := testutil.CreateTestProduct(t, client, "One")
	p2 := testutil.CreateTestProduct(t, client, "Two")

	require.NoError(t, uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		return values.Insert(ctx, tx, newValue("v1", p1))
	}))

	err := uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		dup, err := values.FindDuplicate(ctx, tx, newValue("v2", p2))
		require.NoError(t, err)
		assert.True(t, dup)

		self, err := values.FindDuplicate(ctx, tx, newValue("v1", p1))
		require.NoError(t, err)
		assert.False(t, self)
		return nil
	})
	require.NoError(t, err)
}
