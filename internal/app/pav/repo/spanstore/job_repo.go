package spanstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/models/m_catalog"
	"github.com/light-bringer/pav-service/internal/models/m_job"
	"github.com/light-bringer/pav-service/internal/models/m_note"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/internal/pkg/query"
)

// JobRepo implements JobRepository for Spanner. Writes are buffered on the
// commit plan and become visible once the unit of work commits.
type JobRepo struct {
	model *m_job.Model
}

var _ contracts.JobRepository = (*JobRepo)(nil)

// NewJobRepo creates a new JobRepo.
func NewJobRepo() *JobRepo {
	return &JobRepo{model: m_job.NewModel()}
}

// Insert buffers a job insert.
func (r *JobRepo) Insert(ctx context.Context, tx committer.Tx, job *domain.Job) error {
	st, err := writer(tx)
	if err != nil {
		return err
	}
	data, err := jobToData(job)
	if err != nil {
		return err
	}
	return st.Buffer(r.model.InsertMut(data))
}

func (r *JobRepo) list(ctx context.Context, tx committer.Tx, b *query.Builder) ([]*domain.Job, error) {
	stmt := b.Select(r.model.Columns()...).
		OrderBy(m_job.CreatedAt, query.Asc).
		ThenBy(m_job.Sequence, query.Asc).
		Build()
	rows, err := queryAll[m_job.Data](ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	out := make([]*domain.Job, 0, len(rows))
	for _, d := range rows {
		out = append(out, jobToDomain(d))
	}
	return out, nil
}

// GetByID retrieves a job by ID.
func (r *JobRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Job, error) {
	jobs, err := r.list(ctx, tx, query.From(m_job.TableName).Where(query.Eq(m_job.JobID, id)))
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, domain.ErrJobNotFound
	}
	return jobs[0], nil
}

// ListPending returns up to limit pending jobs in submission order.
func (r *JobRepo) ListPending(ctx context.Context, tx committer.Tx, limit int) ([]*domain.Job, error) {
	b := query.From(m_job.TableName).Where(query.Eq(m_job.Status, string(domain.JobPending)))
	if limit > 0 {
		b = b.Limit(int64(limit))
	}
	return r.list(ctx, tx, b)
}

// ListByParent returns the jobs spawned by parentID.
func (r *JobRepo) ListByParent(ctx context.Context, tx committer.Tx, parentID string) ([]*domain.Job, error) {
	return r.list(ctx, tx, query.From(m_job.TableName).Where(query.Eq(m_job.ParentID, parentID)))
}

// SetStatus buffers a status change.
func (r *JobRepo) SetStatus(ctx context.Context, tx committer.Tx, id string, status domain.JobStatus, message string, at time.Time) error {
	st, err := writer(tx)
	if err != nil {
		return err
	}
	return st.Buffer(r.model.StatusMut(id, string(status), message, at))
}

// DeleteFinishedBefore removes done and canceled jobs last updated before
// cutoff.
func (r *JobRepo) DeleteFinishedBefore(ctx context.Context, tx committer.Tx, cutoff time.Time) (int64, error) {
	stmt := query.From(m_job.TableName).
		Select(m_job.JobID).
		Where(query.In(m_job.Status, []string{string(domain.JobDone), string(domain.JobCanceled)})).
		Where(query.Raw(m_job.UpdatedAt+" < @cutoff", map[string]interface{}{"cutoff": cutoff})).
		Build()
	ids, err := queryStrings(ctx, tx, stmt)
	if err != nil {
		return 0, fmt.Errorf("failed to list finished jobs: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	st, err := writer(tx)
	if err != nil {
		return 0, err
	}
	muts := make([]*spanner.Mutation, 0, len(ids))
	for _, id := range ids {
		muts = append(muts, r.model.DeleteMut(id))
	}
	if err := st.Buffer(muts...); err != nil {
		return 0, err
	}
	return int64(len(ids)), nil
}

func jobToData(j *domain.Job) (*m_job.Data, error) {
	input := spanner.NullJSON{}
	if len(j.Input) > 0 {
		var raw any
		if err := json.Unmarshal(j.Input, &raw); err != nil {
			return nil, fmt.Errorf("failed to decode job input: %w", err)
		}
		input = spanner.NullJSON{Value: raw, Valid: raw != nil}
	}
	return &m_job.Data{
		JobID:      j.ID,
		Sequence:   j.Sequence,
		EntityType: j.EntityType,
		Action:     string(j.Action),
		EntityID:   nonEmpty(j.EntityID),
		Input:      input,
		ParentID:   nonEmpty(j.ParentID),
		Status:     string(j.Status),
		Error:      nonEmpty(j.Error),
		ActorID:    nonEmpty(j.ActorID),
		CreatedAt:  j.CreatedAt,
		UpdatedAt:  j.UpdatedAt,
	}, nil
}

func jobToDomain(d *m_job.Data) *domain.Job {
	j := &domain.Job{
		ID:         d.JobID,
		Sequence:   d.Sequence,
		EntityType: d.EntityType,
		Action:     domain.JobAction(d.Action),
		EntityID:   d.EntityID.StringVal,
		ParentID:   d.ParentID.StringVal,
		Status:     domain.JobStatus(d.Status),
		Error:      d.Error.StringVal,
		ActorID:    d.ActorID.StringVal,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	if d.Input.Valid {
		if raw, err := json.Marshal(d.Input.Value); err == nil {
			j.Input = raw
		}
	}
	return j
}

// NoteSink writes activity notes for Spanner.
type NoteSink struct {
	model *m_note.Model
}

var _ contracts.NoteSink = (*NoteSink)(nil)

// NewNoteSink creates a new NoteSink.
func NewNoteSink() *NoteSink {
	return &NoteSink{model: m_note.NewModel()}
}

// Create buffers a note insert.
func (s *NoteSink) Create(ctx context.Context, tx committer.Tx, note *domain.Note) error {
	st, err := writer(tx)
	if err != nil {
		return err
	}
	rec := &m_note.Record{
		NoteID:      note.ID,
		Type:        note.Type,
		ParentType:  note.ParentType,
		ParentID:    note.ParentID,
		AttributeID: note.AttributeID,
		PavID:       note.PavID,
		CreatedByID: nonEmpty(note.CreatedByID),
		CreatedAt:   note.CreatedAt,
	}
	if note.Data != nil {
		rec.Data = spanner.NullJSON{Value: note.Data, Valid: true}
	}
	return st.Buffer(s.model.InsertMut(rec))
}

// FileMover flips the temporary flag of uploaded files.
type FileMover struct{}

var _ contracts.FileMover = FileMover{}

// MoveFromTmp marks fileID as permanently stored.
func (FileMover) MoveFromTmp(ctx context.Context, tx committer.Tx, fileID string) error {
	stmt := query.From(m_catalog.FileTable).
		Select(m_catalog.FileID).
		Where(query.Eq(m_catalog.FileID, fileID)).
		Build()
	ids, err := queryStrings(ctx, tx, stmt)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}
	if len(ids) == 0 {
		return domain.ErrFileNotFound
	}
	_, err = exec(ctx, tx, spanner.Statement{
		SQL: "UPDATE " + m_catalog.FileTable + " SET " + m_catalog.FileInTmp + " = FALSE WHERE " +
			m_catalog.FileID + " = @id AND " + m_catalog.FileInTmp + " = TRUE",
		Params: map[string]interface{}{"id": fileID},
	})
	return err
}
