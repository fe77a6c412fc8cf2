package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// ProductRepository reads products and maintains their bookkeeping columns.
type ProductRepository interface {
	// GetByID returns domain.ErrProductNotFound for missing or deleted products.
	GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Product, error)

	// Touch stamps the modified-at and modified-by columns.
	Touch(ctx context.Context, tx committer.Tx, id string, at time.Time, actorID string) error

	// AdjustChildrenCount adds delta to the denormalized children count.
	AdjustChildrenCount(ctx context.Context, tx committer.Tx, id string, delta int64) error

	// ClearImage unsets the main image of every product showing fileID. An
	// empty fileID matches nothing.
	ClearImage(ctx context.Context, tx committer.Tx, fileID string) (int64, error)
}

// HierarchyRepository persists parent/child edges between products.
type HierarchyRepository interface {
	// GetByID returns domain.ErrEdgeNotFound for missing or deleted edges.
	GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.HierarchyEdge, error)

	// FindEdge returns the live edge between parentID and childID, or
	// domain.ErrEdgeNotFound.
	FindEdge(ctx context.Context, tx committer.Tx, parentID, childID string) (*domain.HierarchyEdge, error)

	Insert(ctx context.Context, tx committer.Tx, edge *domain.HierarchyEdge) error
	Update(ctx context.Context, tx committer.Tx, edge *domain.HierarchyEdge) error

	// MainChildEdges returns the live edges of parentID flagged as main child,
	// except the edge with id exceptID.
	MainChildEdges(ctx context.Context, tx committer.Tx, parentID, exceptID string) ([]*domain.HierarchyEdge, error)

	// Children returns the live child products of productID.
	Children(ctx context.Context, tx committer.Tx, productID string) ([]domain.ProductNode, error)

	// ParentIDs returns the live parent products of productID.
	ParentIDs(ctx context.Context, tx committer.Tx, productID string) ([]string, error)
}
