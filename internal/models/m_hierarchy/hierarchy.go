package m_hierarchy

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Field name constants for the product_hierarchy table.
const (
	TableName = "product_hierarchy"

	ID        = "id"
	ParentID  = "parent_id"
	EntityID  = "entity_id"
	MainChild = "main_child"
	Deleted   = "deleted"
	CreatedAt = "created_at"
)

// Data represents a parent/child edge.
type Data struct {
	ID        string    `spanner:"id"`
	ParentID  string    `spanner:"parent_id"`
	EntityID  string    `spanner:"entity_id"`
	MainChild bool      `spanner:"main_child"`
	Deleted   bool      `spanner:"deleted"`
	CreatedAt time.Time `spanner:"created_at"`
}

// Model provides type-safe statements for the product_hierarchy table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns returns the columns read into Data.
func (m *Model) Columns() []string {
	return []string{ID, ParentID, EntityID, MainChild, Deleted, CreatedAt}
}

// InsertStmt creates a DML statement inserting an edge.
func (m *Model) InsertStmt(d *Data) spanner.Statement {
	return spanner.Statement{
		SQL: "INSERT INTO " + TableName + " (" + ID + ", " + ParentID + ", " + EntityID + ", " +
			MainChild + ", " + Deleted + ", " + CreatedAt + ") VALUES (@id, @parent, @entity, @main, @deleted, @created)",
		Params: map[string]interface{}{
			"id":      d.ID,
			"parent":  d.ParentID,
			"entity":  d.EntityID,
			"main":    d.MainChild,
			"deleted": d.Deleted,
			"created": d.CreatedAt,
		},
	}
}

// UpdateStmt rewrites the flags of an edge.
func (m *Model) UpdateStmt(d *Data) spanner.Statement {
	return spanner.Statement{
		SQL: "UPDATE " + TableName + " SET " + MainChild + " = @main, " + Deleted + " = @deleted " +
			"WHERE " + ID + " = @id",
		Params: map[string]interface{}{"id": d.ID, "main": d.MainChild, "deleted": d.Deleted},
	}
}
