package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/models/m_attribute"
	"github.com/light-bringer/pav-service/internal/models/m_hierarchy"
	"github.com/light-bringer/pav-service/internal/models/m_product"
)

func apply(t *testing.T, client *spanner.Client, muts ...*spanner.Mutation) {
	t.Helper()
	_, err := client.Apply(context.Background(), muts)
	require.NoError(t, err, "failed to apply fixture")
}

// CreateTestProduct creates a product directly in the database.
func CreateTestProduct(t *testing.T, client *spanner.Client, name string) string {
	t.Helper()

	productID := uuid.New().String()
	apply(t, client, m_product.NewModel().InsertMut(&m_product.Data{
		ProductID: productID,
		Name:      name,
	}))
	return productID
}

// LinkTestProducts creates a live hierarchy edge and bumps the parent's
// children count.
func LinkTestProducts(t *testing.T, client *spanner.Client, parentID, childID string) string {
	t.Helper()

	edgeID := uuid.New().String()
	apply(t, client,
		spanner.Insert(m_hierarchy.TableName,
			[]string{m_hierarchy.ID, m_hierarchy.ParentID, m_hierarchy.EntityID, m_hierarchy.MainChild, m_hierarchy.Deleted, m_hierarchy.CreatedAt},
			[]interface{}{edgeID, parentID, childID, false, false, time.Now()},
		),
	)
	_, err := client.ReadWriteTransaction(context.Background(), func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		_, err := txn.Update(ctx, m_product.NewModel().AdjustChildrenStmt(parentID, 1))
		return err
	})
	require.NoError(t, err, "failed to update children count")
	return edgeID
}

// CreateTestAttribute creates an attribute of the given type.
func CreateTestAttribute(t *testing.T, client *spanner.Client, id, name, attrType string) {
	t.Helper()

	apply(t, client, spanner.InsertMap(m_attribute.TableName, map[string]interface{}{
		m_attribute.ID:                            id,
		m_attribute.Name:                          name,
		m_attribute.Type:                          attrType,
		m_attribute.IsMultilang:                   false,
		m_attribute.Unique:                        false,
		m_attribute.IsRequired:                    false,
		m_attribute.CountBytesInsteadOfCharacters: false,
	}))
}

// CountJobs returns the number of jobs with the given status.
func CountJobs(t *testing.T, client *spanner.Client, status string) int64 {
	t.Helper()

	stmt := spanner.Statement{
		SQL:    "SELECT COUNT(*) FROM pseudo_transaction_jobs WHERE status = @status",
		Params: map[string]interface{}{"status": status},
	}
	iter := client.Single().Query(context.Background(), stmt)
	defer iter.Stop()

	row, err := iter.Next()
	require.NoError(t, err, "failed to count jobs")

	var count int64
	require.NoError(t, row.Columns(&count))
	return count
}
