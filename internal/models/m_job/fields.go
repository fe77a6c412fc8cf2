package m_job

// Field name constants for the pseudo_transaction_jobs table.
const (
	TableName = "pseudo_transaction_jobs"

	JobID      = "job_id"
	Sequence   = "sequence"
	EntityType = "entity_type"
	Action     = "action"
	EntityID   = "entity_id"
	Input      = "input"
	ParentID   = "parent_id"
	Status     = "status"
	Error      = "error_message"
	ActorID    = "actor_id"
	CreatedAt  = "created_at"
	UpdatedAt  = "updated_at"
)
