package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

type jobRepo struct{ s *Store }

var _ contracts.JobRepository = jobRepo{}

// JobRepo returns the pseudo transaction job repository of the store.
func (s *Store) JobRepo() contracts.JobRepository { return jobRepo{s} }

func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	if j.Input != nil {
		c.Input = append([]byte(nil), j.Input...)
	}
	return &c
}

func (r jobRepo) Insert(ctx context.Context, tx committer.Tx, job *domain.Job) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "jobs.Insert")
	if err != nil {
		return err
	}
	if _, exists := s.jobs[job.ID]; exists {
		return contracts.ErrUniqueViolation
	}
	put(t, s.jobs, job.ID, cloneJob(job))
	s.track(t, "jobs", job.ID)
	return nil
}

func (r jobRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Job, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "jobs.GetByID"); err != nil {
		return nil, err
	}
	j, ok := s.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(j), nil
}

func (r jobRepo) ListPending(ctx context.Context, tx committer.Tx, limit int) ([]*domain.Job, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "jobs.ListPending"); err != nil {
		return nil, err
	}
	out := s.sortedJobs(func(j *domain.Job) bool { return j.Status == domain.JobPending })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r jobRepo) ListByParent(ctx context.Context, tx committer.Tx, parentID string) ([]*domain.Job, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "jobs.ListByParent"); err != nil {
		return nil, err
	}
	return s.sortedJobs(func(j *domain.Job) bool { return j.ParentID == parentID }), nil
}

func (r jobRepo) SetStatus(ctx context.Context, tx committer.Tx, id string, status domain.JobStatus, message string, at time.Time) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "jobs.SetStatus")
	if err != nil {
		return err
	}
	j, ok := s.jobs[id]
	if !ok {
		return domain.ErrJobNotFound
	}
	c := cloneJob(j)
	c.Status = status
	c.Error = message
	c.UpdatedAt = at
	put(t, s.jobs, id, c)
	return nil
}

func (r jobRepo) DeleteFinishedBefore(ctx context.Context, tx committer.Tx, cutoff time.Time) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "jobs.DeleteFinishedBefore")
	if err != nil {
		return 0, err
	}
	var n int64
	for id, j := range s.jobs {
		if (j.Status == domain.JobDone || j.Status == domain.JobCanceled) && j.UpdatedAt.Before(cutoff) {
			remove(t, s.jobs, id)
			n++
		}
	}
	return n, nil
}

// sortedJobs returns matching jobs in submission order. It must be called
// with mu held.
func (s *Store) sortedJobs(match func(j *domain.Job) bool) []*domain.Job {
	var out []*domain.Job
	for _, j := range s.jobs {
		if match(j) {
			out = append(out, cloneJob(j))
		}
	}
	sort.SliceStable(out, func(i, k int) bool {
		return s.rank("jobs", out[i].ID) < s.rank("jobs", out[k].ID)
	})
	return out
}

type noteSink struct{ s *Store }

// NoteSink returns the note sink of the store.
func (s *Store) NoteSink() contracts.NoteSink { return noteSink{s} }

func (r noteSink) Create(ctx context.Context, tx committer.Tx, note *domain.Note) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "notes.Create")
	if err != nil {
		return err
	}
	n := len(s.notes)
	c := *note
	s.notes = append(s.notes, &c)
	t.journal(func() { s.notes = s.notes[:n] })
	return nil
}

type fileMover struct{ s *Store }

// FileMover returns the attachment mover of the store.
func (s *Store) FileMover() contracts.FileMover { return fileMover{s} }

func (r fileMover) MoveFromTmp(ctx context.Context, tx committer.Tx, fileID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "files.MoveFromTmp")
	if err != nil {
		return err
	}
	inTmp, ok := s.files[fileID]
	if !ok {
		return domain.ErrFileNotFound
	}
	if !inTmp {
		return nil
	}
	s.files[fileID] = false
	t.journal(func() { s.files[fileID] = true })
	return nil
}
