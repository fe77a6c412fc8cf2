package memstore

import (
	"context"
	"time"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

type valueRepo struct{ s *Store }

var _ contracts.ValueRepository = valueRepo{}

// ValueRepo returns the value repository of the store.
func (s *Store) ValueRepo() contracts.ValueRepository { return valueRepo{s} }

func (r valueRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Value, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "values.GetByID"); err != nil {
		return nil, err
	}
	v, ok := s.values[id]
	if !ok || v.Deleted {
		return nil, domain.ErrValueNotFound
	}
	return v.Clone(), nil
}

// conflicts must be called with mu held.
func (s *Store) conflicts(v *domain.Value) bool {
	for id, other := range s.values {
		if id != v.ID && !other.Deleted && domain.SameKey(other, v) {
			return true
		}
	}
	return false
}

func (r valueRepo) Insert(ctx context.Context, tx committer.Tx, v *domain.Value) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "values.Insert")
	if err != nil {
		return err
	}
	if _, exists := s.values[v.ID]; exists || (!v.Deleted && s.conflicts(v)) {
		return contracts.ErrUniqueViolation
	}
	put(t, s.values, v.ID, v.Clone())
	s.track(t, "values", v.ID)
	return nil
}

func (r valueRepo) Update(ctx context.Context, tx committer.Tx, v *domain.Value) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "values.Update")
	if err != nil {
		return err
	}
	if _, ok := s.values[v.ID]; !ok {
		return domain.ErrValueNotFound
	}
	if !v.Deleted && s.conflicts(v) {
		return contracts.ErrUniqueViolation
	}
	put(t, s.values, v.ID, v.Clone())
	return nil
}

func (r valueRepo) SoftDelete(ctx context.Context, tx committer.Tx, id string, at time.Time, actorID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "values.SoftDelete")
	if err != nil {
		return err
	}
	v, ok := s.values[id]
	if !ok || v.Deleted {
		return domain.ErrValueNotFound
	}
	c := v.Clone()
	c.Deleted = true
	c.ModifiedAt = at
	c.ModifiedByID = actorID
	put(t, s.values, id, c)
	return nil
}

func (r valueRepo) ClearRecord(ctx context.Context, tx committer.Tx, id string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "values.ClearRecord")
	if err != nil {
		return err
	}
	v, ok := s.values[id]
	if !ok {
		return domain.ErrValueNotFound
	}
	c := v.Clone()
	c.Clear()
	put(t, s.values, id, c)
	return nil
}

func (r valueRepo) DeleteByAttribute(ctx context.Context, tx committer.Tx, attributeID string) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "values.DeleteByAttribute")
	if err != nil {
		return 0, err
	}
	var n int64
	for id, v := range s.values {
		if v.AttributeID == attributeID {
			remove(t, s.values, id)
			n++
		}
	}
	return n, nil
}

func (r valueRepo) ListByProducts(ctx context.Context, tx committer.Tx, productIDs []string) ([]*domain.Value, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "values.ListByProducts"); err != nil {
		return nil, err
	}
	wanted := make(map[string]bool, len(productIDs))
	for _, id := range productIDs {
		wanted[id] = true
	}

	var ids []string
	for id, v := range s.values {
		if !v.Deleted && wanted[v.ProductID] {
			ids = append(ids, id)
		}
	}
	s.sortByRank("values", ids)

	out := make([]*domain.Value, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.values[id].Clone())
	}
	return out, nil
}

func (r valueRepo) FindDuplicate(ctx context.Context, tx committer.Tx, v *domain.Value) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "values.FindDuplicate"); err != nil {
		return false, err
	}

	slots := domain.ComparedSlots(v.AttributeType)
	for id, other := range s.values {
		if id == v.ID || other.Deleted {
			continue
		}
		if other.AttributeID != v.AttributeID || other.Language != v.Language || other.Scope != v.Scope {
			continue
		}
		if v.Scope == domain.ScopeChannel && other.ChannelID != v.ChannelID {
			continue
		}
		if p, ok := s.products[other.ProductID]; !ok || p.Deleted {
			continue
		}
		same := true
		for _, slot := range slots {
			if !domain.SlotEqual(v.AttributeType, slot, v, other) {
				same = false
				break
			}
		}
		if same {
			return true, nil
		}
	}
	return false, nil
}
