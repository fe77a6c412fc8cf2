package memstore

import (
	"sort"

	"github.com/google/uuid"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
)

// Seeding helpers write outside of any unit of work.

func (s *Store) PutAttribute(a *domain.Attribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *a
	s.attributes[a.ID] = &c
	s.track(nil, "attributes", a.ID)
}

// RemoveAttribute deletes an attribute definition, leaving its values behind.
func (s *Store) RemoveAttribute(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.attributes, id)
}

func (s *Store) PutClassificationAttribute(ca *domain.ClassificationAttribute) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *ca
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	s.classAttrs[c.ID] = &c
	s.track(nil, "classification_attributes", c.ID)
}

func (s *Store) PutUnit(u *domain.Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *u
	s.units[u.ID] = &c
}

func (s *Store) PutEnumOption(o *domain.EnumOption) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *o
	s.options[o.ID] = &c
}

func (s *Store) PutChannel(ch *domain.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *ch
	s.channels[ch.ID] = &c
}

func (s *Store) PutProduct(p *domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *p
	s.products[p.ID] = &c
	s.track(nil, "products", p.ID)
}

// Link creates a live edge and increments the parent's children count.
func (s *Store) Link(parentID, childID string, mainChild bool) *domain.HierarchyEdge {
	s.mu.Lock()
	defer s.mu.Unlock()
	edge := &domain.HierarchyEdge{
		ID:        uuid.New().String(),
		ParentID:  parentID,
		EntityID:  childID,
		MainChild: mainChild,
	}
	s.edges[edge.ID] = edge
	s.track(nil, "edges", edge.ID)
	if p, ok := s.products[parentID]; ok {
		c := *p
		c.ChildrenCount++
		s.products[parentID] = &c
	}
	return edge.Clone()
}

func (s *Store) PutValue(v *domain.Value) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := v.Clone()
	c.Normalize()
	s.values[c.ID] = c
	s.track(nil, "values", c.ID)
}

// PutFile registers an uploaded file, initially in temporary storage.
func (s *Store) PutFile(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = true
}

// Inspection helpers

// Value returns a copy of a row, deleted or not.
func (s *Store) Value(id string) (*domain.Value, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[id]
	return v.Clone(), ok
}

// LiveValues returns copies of all non-deleted rows in insertion order.
func (s *Store) LiveValues() []*domain.Value {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.values))
	for id, v := range s.values {
		if !v.Deleted {
			ids = append(ids, id)
		}
	}
	s.sortByRank("values", ids)
	out := make([]*domain.Value, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.values[id].Clone())
	}
	return out
}

// Jobs returns copies of all jobs in submission order.
func (s *Store) Jobs() []*domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedJobs(func(*domain.Job) bool { return true })
}

// Notes returns the written notes.
func (s *Store) Notes() []*domain.Note {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Note(nil), s.notes...)
}

func (s *Store) Product(id string) (*domain.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[id]
	if !ok {
		return nil, false
	}
	c := *p
	return &c, true
}

// Edges returns copies of the live edges of a parent in insertion order.
func (s *Store) Edges(parentID string) []*domain.HierarchyEdge {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*domain.HierarchyEdge
	for _, e := range s.edges {
		if e.ParentID == parentID && !e.Deleted {
			out = append(out, e.Clone())
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.rank("edges", out[i].ID) < s.rank("edges", out[j].ID)
	})
	return out
}

// FileInTmp reports whether a file is still in temporary storage.
func (s *Store) FileInTmp(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.files[id]
}

// ClassificationAttributeCount returns the number of overrides of an attribute.
func (s *Store) ClassificationAttributeCount(attributeID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, ca := range s.classAttrs {
		if ca.AttributeID == attributeID {
			n++
		}
	}
	return n
}
