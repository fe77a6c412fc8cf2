package m_product

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the products table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns returns the columns read into Data.
func (m *Model) Columns() []string {
	return []string{
		ProductID,
		Name,
		ChildrenCount,
		ClassificationIDs,
		ImageID,
		ModifiedAt,
		ModifiedByID,
		Deleted,
	}
}

// InsertMut creates a Spanner mutation for inserting a product.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	mut, _ := spanner.InsertOrUpdateStruct(TableName, data)
	return mut
}

// TouchStmt stamps the modification columns of a product.
func (m *Model) TouchStmt(productID string, at time.Time, actorID string) spanner.Statement {
	return spanner.Statement{
		SQL: "UPDATE " + TableName + " SET " + ModifiedAt + " = @at, " + ModifiedByID + " = @actor " +
			"WHERE " + ProductID + " = @id",
		Params: map[string]interface{}{"id": productID, "at": at, "actor": actorID},
	}
}

// AdjustChildrenStmt adds delta to the children count, never going below
// zero.
func (m *Model) AdjustChildrenStmt(productID string, delta int64) spanner.Statement {
	return spanner.Statement{
		SQL: "UPDATE " + TableName + " SET " + ChildrenCount + " = GREATEST(" + ChildrenCount + " + @delta, 0) " +
			"WHERE " + ProductID + " = @id",
		Params: map[string]interface{}{"id": productID, "delta": delta},
	}
}

// ClearImageStmt unsets the main image of every product showing fileID.
func (m *Model) ClearImageStmt(fileID string) spanner.Statement {
	return spanner.Statement{
		SQL:    "UPDATE " + TableName + " SET " + ImageID + " = NULL WHERE " + ImageID + " = @file",
		Params: map[string]interface{}{"file": fileID},
	}
}
