// Package memstore is an in-memory backend implementing every repository and
// the unit of work. It backs unit tests and the "memory" storage driver.
//
// Writes are applied immediately and journaled on the unit of work; a failed
// or panicking unit of work replays its journal backwards. Read-write units of
// work are serialized against each other and against read-only ones, so a
// unit never observes uncommitted writes and a rollback never undoes another
// unit's committed writes. Opening a new top-level unit of work from inside a
// running one deadlocks; pass the running unit as parent instead.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Store holds all tables.
type Store struct {
	// uow is held for the whole of a top-level unit of work, exclusively by
	// Do and shared by View. mu guards the tables for single operations.
	uow sync.RWMutex
	mu  sync.Mutex

	values     map[string]*domain.Value
	attributes map[string]*domain.Attribute
	classAttrs map[string]*domain.ClassificationAttribute
	units      map[string]*domain.Unit
	options    map[string]*domain.EnumOption
	channels   map[string]*domain.Channel
	products   map[string]*domain.Product
	edges      map[string]*domain.HierarchyEdge
	jobs       map[string]*domain.Job
	files      map[string]bool
	notes      []*domain.Note

	// insertion order per table and id
	order map[string]int64
	seq   int64

	failures map[string]*failure
}

type failure struct {
	after int
	err   error
}

// New creates an empty store.
func New() *Store {
	return &Store{
		values:     make(map[string]*domain.Value),
		attributes: make(map[string]*domain.Attribute),
		classAttrs: make(map[string]*domain.ClassificationAttribute),
		units:      make(map[string]*domain.Unit),
		options:    make(map[string]*domain.EnumOption),
		channels:   make(map[string]*domain.Channel),
		products:   make(map[string]*domain.Product),
		edges:      make(map[string]*domain.HierarchyEdge),
		jobs:       make(map[string]*domain.Job),
		files:      make(map[string]bool),
		order:      make(map[string]int64),
		failures:   make(map[string]*failure),
	}
}

// Tx is a unit of work of the store.
type Tx struct {
	*committer.Scope
	store    *Store
	readOnly bool
	undo     []func()
}

func (t *Tx) journal(fn func()) {
	t.undo = append(t.undo, fn)
}

// Do implements committer.UnitOfWork.
func (s *Store) Do(ctx context.Context, parent committer.Tx, fn func(ctx context.Context, tx committer.Tx) error) error {
	if parent != nil {
		return fn(ctx, parent)
	}

	tx := &Tx{Scope: committer.NewScope(), store: s}
	err := s.run(ctx, tx, fn)
	tx.RunAfter(context.WithoutCancel(ctx))

	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}

// run executes fn holding the exclusive unit of work lock. The journal is
// replayed when fn fails or panics; a panic is re-raised after the rollback.
func (s *Store) run(ctx context.Context, tx *Tx, fn func(ctx context.Context, tx committer.Tx) error) (err error) {
	s.uow.Lock()
	defer s.uow.Unlock()

	committed := false
	defer func() {
		if !committed {
			s.rollback(tx)
		}
		tx.undo = nil
	}()

	err = fn(ctx, tx)
	committed = err == nil
	return err
}

func (s *Store) rollback(tx *Tx) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(tx.undo) - 1; i >= 0; i-- {
		tx.undo[i]()
	}
}

// View implements committer.UnitOfWork.
func (s *Store) View(ctx context.Context, parent committer.Tx, fn func(ctx context.Context, tx committer.Tx) error) error {
	if parent != nil {
		return fn(ctx, parent)
	}

	tx := &Tx{Scope: committer.NewScope(), store: s, readOnly: true}
	defer tx.RunAfter(context.WithoutCancel(ctx))

	s.uow.RLock()
	defer s.uow.RUnlock()
	return fn(ctx, tx)
}

// FailOn makes the operation op fail with err once it has succeeded after
// times. Operation names are "<table>.<method>", e.g. "jobs.Insert".
func (s *Store) FailOn(op string, after int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = &failure{after: after, err: err}
}

// ClearFailures removes every injected failure.
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = make(map[string]*failure)
}

// check must be called with mu held.
func (s *Store) check(op string) error {
	f, ok := s.failures[op]
	if !ok {
		return nil
	}
	if f.after > 0 {
		f.after--
		return nil
	}
	return f.err
}

// writer unwraps tx for a write. It must be called with mu held.
func (s *Store) writer(tx committer.Tx, op string) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil || t.store != s {
		return nil, fmt.Errorf("unit of work %T does not belong to this store", tx)
	}
	if t.readOnly {
		return nil, fmt.Errorf("%s: read-only unit of work", op)
	}
	if err := s.check(op); err != nil {
		return nil, err
	}
	return t, nil
}

// reader validates tx for a read. It must be called with mu held.
func (s *Store) reader(tx committer.Tx, op string) error {
	t, ok := tx.(*Tx)
	if !ok || t == nil || t.store != s {
		return fmt.Errorf("unit of work %T does not belong to this store", tx)
	}
	return s.check(op)
}

// track records the insertion order of a new key. It must be called with mu
// held.
func (s *Store) track(t *Tx, table, id string) {
	key := table + ":" + id
	if _, ok := s.order[key]; ok {
		return
	}
	s.seq++
	s.order[key] = s.seq
	if t != nil {
		t.journal(func() { delete(s.order, key) })
	}
}

func (s *Store) rank(table, id string) int64 {
	return s.order[table+":"+id]
}

// put replaces m[id] and journals the previous state.
func put[T any](t *Tx, m map[string]*T, id string, v *T) {
	old, had := m[id]
	m[id] = v
	if t == nil {
		return
	}
	t.journal(func() {
		if had {
			m[id] = old
		} else {
			delete(m, id)
		}
	})
}

// remove deletes m[id] and journals the previous state.
func remove[T any](t *Tx, m map[string]*T, id string) {
	old, had := m[id]
	if !had {
		return
	}
	delete(m, id)
	t.journal(func() { m[id] = old })
}

func (s *Store) sortByRank(table string, ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return s.rank(table, ids[i]) < s.rank(table, ids[j])
	})
}
