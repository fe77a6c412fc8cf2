package domain

import (
	"encoding/json"
	"time"
)

// Entity types a pseudo transaction job can target.
const (
	EntityValue   = "ProductAttributeValue"
	EntityProduct = "Product"
)

// JobAction is the mutation a job performs.
type JobAction string

const (
	ActionCreate JobAction = "create"
	ActionUpdate JobAction = "update"
	ActionDelete JobAction = "delete"
)

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobPending    JobStatus = "pending"
	JobProcessing JobStatus = "processing"
	JobDone       JobStatus = "done"
	JobFailed     JobStatus = "failed"
	JobCanceled   JobStatus = "canceled"
)

// Job is a deferred mutation enqueued by a cascade.
//
// Jobs enqueued in one unit of work share CreatedAt and are ordered by
// Sequence, so (CreatedAt, Sequence) is the submission order. ParentID is the
// id of the job whose execution the cascade step belongs to.
type Job struct {
	ID         string
	Sequence   int64
	EntityType string
	Action     JobAction
	EntityID   string
	Input      json.RawMessage
	ParentID   string
	Status     JobStatus
	Error      string
	ActorID    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// DecodeInput decodes the job payload. Jobs without payload yield an empty
// input.
func (j *Job) DecodeInput() (*Input, error) {
	in := &Input{}
	if len(j.Input) == 0 || string(j.Input) == "null" {
		return in, nil
	}
	if err := json.Unmarshal(j.Input, in); err != nil {
		return nil, err
	}
	return in, nil
}

// IsFinished reports whether the job will not run again.
func (j *Job) IsFinished() bool {
	switch j.Status {
	case JobDone, JobFailed, JobCanceled:
		return true
	default:
		return false
	}
}
