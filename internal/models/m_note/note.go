package m_note

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Table name constant
const TableName = "notes"

// Field name constants for type-safe database access
const (
	NoteID      = "note_id"
	Type        = "type"
	ParentType  = "parent_type"
	ParentID    = "parent_id"
	AttributeID = "attribute_id"
	PavID       = "pav_id"
	Data        = "data"
	CreatedByID = "created_by_id"
	CreatedAt   = "created_at"
)

// Record represents a note row in the database.
type Record struct {
	NoteID      string             `spanner:"note_id"`
	Type        string             `spanner:"type"`
	ParentType  string             `spanner:"parent_type"`
	ParentID    string             `spanner:"parent_id"`
	AttributeID string             `spanner:"attribute_id"`
	PavID       string             `spanner:"pav_id"`
	Data        spanner.NullJSON   `spanner:"data"`
	CreatedByID spanner.NullString `spanner:"created_by_id"`
	CreatedAt   time.Time          `spanner:"created_at"`
}

// Model provides type-safe database operations for notes.
type Model struct{}

// NewModel creates a new note model.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a mutation for inserting a note.
func (m *Model) InsertMut(r *Record) *spanner.Mutation {
	mut, _ := spanner.InsertStruct(TableName, r)
	return mut
}
