package unlink_child

import (
	"context"
	"fmt"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request identifies the edge to delete.
type Request struct {
	ParentID string
	ChildID  string
}

// Interactor handles the unlink child product use case.
type Interactor struct {
	uow       committer.UnitOfWork
	hierarchy contracts.HierarchyRepository
	products  contracts.ProductRepository
}

// NewInteractor creates a new unlink child product interactor.
func NewInteractor(uow committer.UnitOfWork, hierarchy contracts.HierarchyRepository, products contracts.ProductRepository) *Interactor {
	return &Interactor{
		uow:       uow,
		hierarchy: hierarchy,
		products:  products,
	}
}

// Execute soft-deletes the edge between parent and child and decrements the
// parent's children count.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	return i.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		edge, err := i.hierarchy.FindEdge(ctx, tx, req.ParentID, req.ChildID)
		if err != nil {
			return err
		}

		edge.Deleted = true
		if err := i.hierarchy.Update(ctx, tx, edge); err != nil {
			return fmt.Errorf("failed to delete hierarchy edge: %w", err)
		}
		if err := i.products.AdjustChildrenCount(ctx, tx, req.ParentID, -1); err != nil {
			return fmt.Errorf("failed to update children count: %w", err)
		}
		return nil
	})
}
