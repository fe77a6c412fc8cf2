package spanstore

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/models/m_hierarchy"
	"github.com/light-bringer/pav-service/internal/models/m_product"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/internal/pkg/query"
)

// ProductRepo implements ProductRepository for Spanner.
type ProductRepo struct {
	model *m_product.Model
}

var _ contracts.ProductRepository = (*ProductRepo)(nil)

// NewProductRepo creates a new ProductRepo.
func NewProductRepo() *ProductRepo {
	return &ProductRepo{model: m_product.NewModel()}
}

// GetByID retrieves a live product by ID.
func (r *ProductRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Product, error) {
	stmt := query.From(m_product.TableName).
		Select(r.model.Columns()...).
		Where(query.Eq(m_product.ProductID, id)).
		Where(query.Eq(m_product.Deleted, false)).
		Build()
	data, err := queryOne[m_product.Data](ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to read product: %w", err)
	}
	if data == nil {
		return nil, domain.ErrProductNotFound
	}
	return productToDomain(data), nil
}

// Touch stamps the modification columns.
func (r *ProductRepo) Touch(ctx context.Context, tx committer.Tx, id string, at time.Time, actorID string) error {
	n, err := exec(ctx, tx, r.model.TouchStmt(id, at, actorID))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// AdjustChildrenCount adds delta to the children count.
func (r *ProductRepo) AdjustChildrenCount(ctx context.Context, tx committer.Tx, id string, delta int64) error {
	n, err := exec(ctx, tx, r.model.AdjustChildrenStmt(id, delta))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// ClearImage unsets the main image of every product showing fileID. An empty
// fileID matches nothing.
func (r *ProductRepo) ClearImage(ctx context.Context, tx committer.Tx, fileID string) (int64, error) {
	if fileID == "" {
		return 0, nil
	}
	return exec(ctx, tx, r.model.ClearImageStmt(fileID))
}

func productToDomain(d *m_product.Data) *domain.Product {
	return &domain.Product{
		ID:                d.ProductID,
		Name:              d.Name,
		ChildrenCount:     d.ChildrenCount,
		ClassificationIDs: d.ClassificationIDs,
		ImageID:           d.ImageID.StringVal,
		ModifiedAt:        d.ModifiedAt.Time,
		ModifiedByID:      d.ModifiedByID.StringVal,
		Deleted:           d.Deleted,
	}
}

// HierarchyRepo implements HierarchyRepository for Spanner.
type HierarchyRepo struct {
	model *m_hierarchy.Model
}

var _ contracts.HierarchyRepository = (*HierarchyRepo)(nil)

// NewHierarchyRepo creates a new HierarchyRepo.
func NewHierarchyRepo() *HierarchyRepo {
	return &HierarchyRepo{model: m_hierarchy.NewModel()}
}

func (r *HierarchyRepo) live() *query.Builder {
	return query.From(m_hierarchy.TableName).
		Select(r.model.Columns()...).
		Where(query.Eq(m_hierarchy.Deleted, false))
}

func (r *HierarchyRepo) one(ctx context.Context, tx committer.Tx, b *query.Builder) (*domain.HierarchyEdge, error) {
	data, err := queryOne[m_hierarchy.Data](ctx, tx, b.OrderBy(m_hierarchy.CreatedAt, query.Asc).Limit(1).Build())
	if err != nil {
		return nil, fmt.Errorf("failed to read hierarchy edge: %w", err)
	}
	if data == nil {
		return nil, domain.ErrEdgeNotFound
	}
	return edgeToDomain(data), nil
}

// GetByID retrieves a live edge by ID.
func (r *HierarchyRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.HierarchyEdge, error) {
	return r.one(ctx, tx, r.live().Where(query.Eq(m_hierarchy.ID, id)))
}

// FindEdge retrieves the live edge between parentID and childID.
func (r *HierarchyRepo) FindEdge(ctx context.Context, tx committer.Tx, parentID, childID string) (*domain.HierarchyEdge, error) {
	return r.one(ctx, tx, r.live().
		Where(query.Eq(m_hierarchy.ParentID, parentID)).
		Where(query.Eq(m_hierarchy.EntityID, childID)))
}

// Insert creates an edge.
func (r *HierarchyRepo) Insert(ctx context.Context, tx committer.Tx, edge *domain.HierarchyEdge) error {
	_, err := exec(ctx, tx, r.model.InsertStmt(edgeToData(edge)))
	return err
}

// Update rewrites the flags of an edge.
func (r *HierarchyRepo) Update(ctx context.Context, tx committer.Tx, edge *domain.HierarchyEdge) error {
	n, err := exec(ctx, tx, r.model.UpdateStmt(edgeToData(edge)))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEdgeNotFound
	}
	return nil
}

// MainChildEdges returns the live main child edges of parentID but exceptID.
func (r *HierarchyRepo) MainChildEdges(ctx context.Context, tx committer.Tx, parentID, exceptID string) ([]*domain.HierarchyEdge, error) {
	stmt := r.live().
		Where(query.Eq(m_hierarchy.ParentID, parentID)).
		Where(query.Eq(m_hierarchy.MainChild, true)).
		Where(query.Ne(m_hierarchy.ID, exceptID)).
		OrderBy(m_hierarchy.CreatedAt, query.Asc).
		Build()
	rows, err := queryAll[m_hierarchy.Data](ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list main child edges: %w", err)
	}
	out := make([]*domain.HierarchyEdge, 0, len(rows))
	for _, d := range rows {
		out = append(out, edgeToDomain(d))
	}
	return out, nil
}

type childRow struct {
	ID            string `spanner:"product_id"`
	Name          string `spanner:"name"`
	ChildrenCount int64  `spanner:"children_count"`
}

// Children returns the live child products of productID.
func (r *HierarchyRepo) Children(ctx context.Context, tx committer.Tx, productID string) ([]domain.ProductNode, error) {
	stmt := query.From(m_product.TableName+" p JOIN "+m_hierarchy.TableName+" h ON h."+m_hierarchy.EntityID+" = p."+m_product.ProductID).
		Select("p."+m_product.ProductID, "p."+m_product.Name, "p."+m_product.ChildrenCount).
		Where(query.Eq("h."+m_hierarchy.ParentID, productID)).
		Where(query.Eq("h."+m_hierarchy.Deleted, false)).
		Where(query.Eq("p."+m_product.Deleted, false)).
		OrderBy("h."+m_hierarchy.CreatedAt, query.Asc).
		Build()
	rows, err := queryAll[childRow](ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	out := make([]domain.ProductNode, 0, len(rows))
	for _, c := range rows {
		out = append(out, domain.ProductNode{ID: c.ID, Name: c.Name, ChildrenCount: c.ChildrenCount})
	}
	return out, nil
}

// ParentIDs returns the live parents of productID.
func (r *HierarchyRepo) ParentIDs(ctx context.Context, tx committer.Tx, productID string) ([]string, error) {
	stmt := query.From(m_hierarchy.TableName).
		Select(m_hierarchy.ParentID).
		Where(query.Eq(m_hierarchy.EntityID, productID)).
		Where(query.Eq(m_hierarchy.Deleted, false)).
		OrderBy(m_hierarchy.CreatedAt, query.Asc).
		Build()
	ids, err := queryStrings(ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list parents: %w", err)
	}
	return ids, nil
}

func edgeToData(e *domain.HierarchyEdge) *m_hierarchy.Data {
	return &m_hierarchy.Data{
		ID:        e.ID,
		ParentID:  e.ParentID,
		EntityID:  e.EntityID,
		MainChild: e.MainChild,
		Deleted:   e.Deleted,
		CreatedAt: e.CreatedAt,
	}
}

func edgeToDomain(d *m_hierarchy.Data) *domain.HierarchyEdge {
	return &domain.HierarchyEdge{
		ID:        d.ID,
		ParentID:  d.ParentID,
		EntityID:  d.EntityID,
		MainChild: d.MainChild,
		Deleted:   d.Deleted,
		CreatedAt: d.CreatedAt,
	}
}
