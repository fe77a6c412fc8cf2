package m_job

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the
// pseudo_transaction_jobs table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns returns the columns read into Data.
func (m *Model) Columns() []string {
	return []string{
		JobID,
		Sequence,
		EntityType,
		Action,
		EntityID,
		Input,
		ParentID,
		Status,
		Error,
		ActorID,
		CreatedAt,
		UpdatedAt,
	}
}

// InsertMut creates a Spanner mutation for inserting a job.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		m.Columns(),
		[]interface{}{
			data.JobID,
			data.Sequence,
			data.EntityType,
			data.Action,
			data.EntityID,
			data.Input,
			data.ParentID,
			data.Status,
			data.Error,
			data.ActorID,
			data.CreatedAt,
			data.UpdatedAt,
		},
	)
}

// StatusMut creates a Spanner mutation moving a job to status.
func (m *Model) StatusMut(jobID, status, message string, at time.Time) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{JobID, Status, Error, UpdatedAt},
		[]interface{}{jobID, status, spanner.NullString{StringVal: message, Valid: message != ""}, at},
	)
}

// DeleteMut creates a Spanner mutation for deleting a job.
func (m *Model) DeleteMut(jobID string) *spanner.Mutation {
	return spanner.Delete(TableName, spanner.Key{jobID})
}
