package m_job

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the pseudo_transaction_jobs table.
type Data struct {
	JobID      string             `spanner:"job_id"`
	Sequence   int64              `spanner:"sequence"`
	EntityType string             `spanner:"entity_type"`
	Action     string             `spanner:"action"`
	EntityID   spanner.NullString `spanner:"entity_id"`
	Input      spanner.NullJSON   `spanner:"input"`
	ParentID   spanner.NullString `spanner:"parent_id"`
	Status     string             `spanner:"status"`
	Error      spanner.NullString `spanner:"error_message"`
	ActorID    spanner.NullString `spanner:"actor_id"`
	CreatedAt  time.Time          `spanner:"created_at"`
	UpdatedAt  time.Time          `spanner:"updated_at"`
}
