package memstore

import (
	"context"
	"time"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

type productRepo struct{ s *Store }

var _ contracts.ProductRepository = productRepo{}

// ProductRepo returns the product repository of the store.
func (s *Store) ProductRepo() contracts.ProductRepository { return productRepo{s} }

func (r productRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Product, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "products.GetByID"); err != nil {
		return nil, err
	}
	p, ok := s.products[id]
	if !ok || p.Deleted {
		return nil, domain.ErrProductNotFound
	}
	c := *p
	c.ClassificationIDs = append([]string(nil), p.ClassificationIDs...)
	return &c, nil
}

// updateProduct applies fn to a copy of product id. It must be called with mu held.
func (s *Store) updateProduct(t *Tx, id string, fn func(p *domain.Product)) error {
	p, ok := s.products[id]
	if !ok {
		return domain.ErrProductNotFound
	}
	c := *p
	fn(&c)
	put(t, s.products, id, &c)
	return nil
}

func (r productRepo) Touch(ctx context.Context, tx committer.Tx, id string, at time.Time, actorID string) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "products.Touch")
	if err != nil {
		return err
	}
	return s.updateProduct(t, id, func(p *domain.Product) {
		p.ModifiedAt = at
		p.ModifiedByID = actorID
	})
}

func (r productRepo) AdjustChildrenCount(ctx context.Context, tx committer.Tx, id string, delta int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "products.AdjustChildrenCount")
	if err != nil {
		return err
	}
	return s.updateProduct(t, id, func(p *domain.Product) {
		p.ChildrenCount += delta
		if p.ChildrenCount < 0 {
			p.ChildrenCount = 0
		}
	})
}

func (r productRepo) ClearImage(ctx context.Context, tx committer.Tx, fileID string) (int64, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "products.ClearImage")
	if err != nil {
		return 0, err
	}
	if fileID == "" {
		return 0, nil
	}
	var n int64
	for id, p := range s.products {
		if p.ImageID != fileID {
			continue
		}
		if err := s.updateProduct(t, id, func(p *domain.Product) { p.ImageID = "" }); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

type hierarchyRepo struct{ s *Store }

var _ contracts.HierarchyRepository = hierarchyRepo{}

// HierarchyRepo returns the hierarchy edge repository of the store.
func (s *Store) HierarchyRepo() contracts.HierarchyRepository { return hierarchyRepo{s} }

func (r hierarchyRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.HierarchyEdge, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "edges.GetByID"); err != nil {
		return nil, err
	}
	e, ok := s.edges[id]
	if !ok || e.Deleted {
		return nil, domain.ErrEdgeNotFound
	}
	return e.Clone(), nil
}

func (r hierarchyRepo) FindEdge(ctx context.Context, tx committer.Tx, parentID, childID string) (*domain.HierarchyEdge, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "edges.FindEdge"); err != nil {
		return nil, err
	}
	edges := s.liveEdges(func(e *domain.HierarchyEdge) bool {
		return e.ParentID == parentID && e.EntityID == childID
	})
	if len(edges) == 0 {
		return nil, domain.ErrEdgeNotFound
	}
	return edges[0].Clone(), nil
}

func (r hierarchyRepo) Insert(ctx context.Context, tx committer.Tx, edge *domain.HierarchyEdge) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "edges.Insert")
	if err != nil {
		return err
	}
	if _, exists := s.edges[edge.ID]; exists {
		return contracts.ErrUniqueViolation
	}
	put(t, s.edges, edge.ID, edge.Clone())
	s.track(t, "edges", edge.ID)
	return nil
}

func (r hierarchyRepo) Update(ctx context.Context, tx committer.Tx, edge *domain.HierarchyEdge) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := s.writer(tx, "edges.Update")
	if err != nil {
		return err
	}
	if _, ok := s.edges[edge.ID]; !ok {
		return domain.ErrEdgeNotFound
	}
	put(t, s.edges, edge.ID, edge.Clone())
	return nil
}

func (r hierarchyRepo) MainChildEdges(ctx context.Context, tx committer.Tx, parentID, exceptID string) ([]*domain.HierarchyEdge, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "edges.MainChildEdges"); err != nil {
		return nil, err
	}
	var out []*domain.HierarchyEdge
	for _, e := range s.liveEdges(func(e *domain.HierarchyEdge) bool {
		return e.ParentID == parentID && e.MainChild && e.ID != exceptID
	}) {
		out = append(out, e.Clone())
	}
	return out, nil
}

func (r hierarchyRepo) Children(ctx context.Context, tx committer.Tx, productID string) ([]domain.ProductNode, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "edges.Children"); err != nil {
		return nil, err
	}
	var out []domain.ProductNode
	for _, e := range s.liveEdges(func(e *domain.HierarchyEdge) bool { return e.ParentID == productID }) {
		p, ok := s.products[e.EntityID]
		if !ok || p.Deleted {
			continue
		}
		out = append(out, domain.ProductNode{ID: p.ID, Name: p.Name, ChildrenCount: p.ChildrenCount})
	}
	return out, nil
}

func (r hierarchyRepo) ParentIDs(ctx context.Context, tx committer.Tx, productID string) ([]string, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.reader(tx, "edges.ParentIDs"); err != nil {
		return nil, err
	}
	var out []string
	for _, e := range s.liveEdges(func(e *domain.HierarchyEdge) bool { return e.EntityID == productID }) {
		out = append(out, e.ParentID)
	}
	return out, nil
}

// liveEdges returns matching live edges in insertion order. It must be called
// with mu held.
func (s *Store) liveEdges(match func(e *domain.HierarchyEdge) bool) []*domain.HierarchyEdge {
	var ids []string
	for id, e := range s.edges {
		if !e.Deleted && match(e) {
			ids = append(ids, id)
		}
	}
	s.sortByRank("edges", ids)
	out := make([]*domain.HierarchyEdge, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.edges[id])
	}
	return out
}
