package committer

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Tx is an open unit of work.
//
// Besides identifying the transaction, a Tx carries a memo that lives exactly
// as long as the unit of work, and a sequence used to order records enqueued
// within it.
type Tx interface {
	// ID returns a unique identifier of the unit of work.
	ID() string

	// Next returns the next value of a per-unit-of-work counter, starting at 1.
	Next() int64

	// Memo returns a value memoized under key in this unit of work.
	Memo(key string) (any, bool)

	// SetMemo stores a value under key for the rest of the unit of work.
	SetMemo(key string, value any)

	// ForgetMemo drops every memoized key with the given prefix.
	ForgetMemo(prefix string)

	// After registers fn to run once the outermost unit of work has finished,
	// whether it committed or rolled back. fn typically opens its own unit of
	// work.
	After(fn func(ctx context.Context))
}

// UnitOfWork opens, joins and finishes units of work.
type UnitOfWork interface {
	// Do runs fn inside a read-write unit of work. When parent is non-nil fn
	// joins it: Do neither commits nor rolls back. Otherwise Do opens a new unit
	// of work, commits it when fn returns nil and rolls it back otherwise.
	Do(ctx context.Context, parent Tx, fn func(ctx context.Context, tx Tx) error) error

	// View runs fn inside a read-only unit of work, or joins parent.
	View(ctx context.Context, parent Tx, fn func(ctx context.Context, tx Tx) error) error
}

// Scope is the backend-independent part of a Tx. Backends embed it.
type Scope struct {
	id    string
	mu    sync.Mutex
	seq   int64
	memo  map[string]any
	after []func(ctx context.Context)
}

// NewScope creates a fresh scope with a random id.
func NewScope() *Scope {
	return &Scope{
		id:   uuid.New().String(),
		memo: make(map[string]any),
	}
}

// ID returns the scope id.
func (s *Scope) ID() string {
	return s.id
}

// Next returns the next sequence value.
func (s *Scope) Next() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

// Memo returns a memoized value.
func (s *Scope) Memo(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.memo[key]
	return v, ok
}

// SetMemo memoizes a value.
func (s *Scope) SetMemo(key string, value any) {
	s.mu.Lock()
	s.memo[key] = value
	s.mu.Unlock()
}

// ForgetMemo drops memoized values whose key starts with prefix.
func (s *Scope) ForgetMemo(prefix string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.memo {
		if strings.HasPrefix(k, prefix) {
			delete(s.memo, k)
		}
	}
}

// After queues fn for RunAfter.
func (s *Scope) After(fn func(ctx context.Context)) {
	s.mu.Lock()
	s.after = append(s.after, fn)
	s.mu.Unlock()
}

// RunAfter runs the queued callbacks in registration order. Backends call it
// when the unit of work owning the scope has finished.
func (s *Scope) RunAfter(ctx context.Context) {
	s.mu.Lock()
	fns := s.after
	s.after = nil
	s.mu.Unlock()

	for _, fn := range fns {
		fn(ctx)
	}
}
