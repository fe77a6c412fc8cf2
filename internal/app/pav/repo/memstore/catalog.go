package memstore

import (
	"context"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

type attributeRepo struct{ s *Store }

var _ contracts.AttributeRepository = attributeRepo{}

// AttributeRepo returns the attribute repository of the store.
func (s *Store) AttributeRepo() contracts.AttributeRepository { return attributeRepo{s} }

func (r attributeRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Attribute, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "attributes.GetByID"); err != nil {
		return nil, err
	}
	a, ok := s.attributes[id]
	if !ok {
		return nil, domain.ErrAttributeNotFound
	}
	c := *a
	return &c, nil
}

func (r attributeRepo) ListByIDs(ctx context.Context, tx committer.Tx, ids []string) ([]*domain.Attribute, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "attributes.ListByIDs"); err != nil {
		return nil, err
	}
	var out []*domain.Attribute
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if a, ok := s.attributes[id]; ok {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (r attributeRepo) ListByTab(ctx context.Context, tx committer.Tx, tabID string) ([]*domain.Attribute, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "attributes.ListByTab"); err != nil {
		return nil, err
	}
	var ids []string
	for id, a := range s.attributes {
		if a.AttributeTabID == tabID {
			ids = append(ids, id)
		}
	}
	s.sortByRank("attributes", ids)
	out := make([]*domain.Attribute, 0, len(ids))
	for _, id := range ids {
		c := *s.attributes[id]
		out = append(out, &c)
	}
	return out, nil
}

type classificationAttributeRepo struct{ s *Store }

var _ contracts.ClassificationAttributeRepository = classificationAttributeRepo{}

// ClassificationAttributeRepo returns the classification attribute repository
// of the store.
func (s *Store) ClassificationAttributeRepo() contracts.ClassificationAttributeRepository {
	return classificationAttributeRepo{s}
}

func (r classificationAttributeRepo) ListByClassification(ctx context.Context, tx committer.Tx, classificationID string) ([]*domain.ClassificationAttribute, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "classification_attributes.ListByClassification"); err != nil {
		return nil, err
	}
	var ids []string
	for id, ca := range s.classAttrs {
		if ca.ClassificationID == classificationID {
			ids = append(ids, id)
		}
	}
	s.sortByRank("classification_attributes", ids)
	out := make([]*domain.ClassificationAttribute, 0, len(ids))
	for _, id := range ids {
		c := *s.classAttrs[id]
		out = append(out, &c)
	}
	return out, nil
}

func (r classificationAttributeRepo) DeleteByAttribute(ctx context.Context, tx committer.Tx, attributeID string) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "classification_attributes.DeleteByAttribute")
	if err != nil {
		return 0, err
	}
	var n int64
	for id, ca := range s.classAttrs {
		if ca.AttributeID == attributeID {
			remove(t, s.classAttrs, id)
			n++
		}
	}
	return n, nil
}

type unitRepo struct{ s *Store }

// UnitRepo returns the unit repository of the store.
func (s *Store) UnitRepo() contracts.UnitRepository { return unitRepo{s} }

func (r unitRepo) Exists(ctx context.Context, tx committer.Tx, unitID, measureID string) (bool, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "units.Exists"); err != nil {
		return false, err
	}
	u, ok := s.units[unitID]
	return ok && u.MeasureID == measureID, nil
}

type enumOptionRepo struct{ s *Store }

// EnumOptionRepo returns the extensible enum option repository of the store.
func (s *Store) EnumOptionRepo() contracts.EnumOptionRepository { return enumOptionRepo{s} }

func (r enumOptionRepo) ExistingIDs(ctx context.Context, tx committer.Tx, enumID string, ids []string) ([]string, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "extensible_enum_options.ExistingIDs"); err != nil {
		return nil, err
	}
	var out []string
	for _, id := range ids {
		if o, ok := s.options[id]; ok && o.ExtensibleEnumID == enumID {
			out = append(out, id)
		}
	}
	return out, nil
}

type channelRepo struct{ s *Store }

// ChannelRepo returns the channel repository of the store.
func (s *Store) ChannelRepo() contracts.ChannelRepository { return channelRepo{s} }

func (r channelRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Channel, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "channels.GetByID"); err != nil {
		return nil, err
	}
	ch, ok := s.channels[id]
	if !ok {
		return nil, domain.ErrChannelNotFound
	}
	c := *ch
	return &c, nil
}

func (r channelRepo) ListByIDs(ctx context.Context, tx committer.Tx, ids []string) ([]*domain.Channel, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "channels.ListByIDs"); err != nil {
		return nil, err
	}
	var out []*domain.Channel
	for _, id := range ids {
		if ch, ok := s.channels[id]; ok {
			c := *ch
			out = append(out, &c)
		}
	}
	return out, nil
}
