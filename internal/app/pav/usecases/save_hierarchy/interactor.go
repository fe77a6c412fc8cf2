package save_hierarchy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/clock"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request describes the edge to save. An edge without ID is looked up by
// its parent and child, and created when missing.
type Request struct {
	ID        string
	ParentID  string
	ChildID   string
	MainChild bool
}

// Interactor handles the save hierarchy edge use case.
type Interactor struct {
	uow       committer.UnitOfWork
	hierarchy contracts.HierarchyRepository
	products  contracts.ProductRepository
	clock     clock.Clock
}

// NewInteractor creates a new save hierarchy edge interactor.
func NewInteractor(
	uow committer.UnitOfWork,
	hierarchy contracts.HierarchyRepository,
	products contracts.ProductRepository,
	clock clock.Clock,
) *Interactor {
	return &Interactor{
		uow:       uow,
		hierarchy: hierarchy,
		products:  products,
		clock:     clock,
	}
}

// Execute saves the edge in its own unit of work.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.HierarchyEdge, error) {
	var out *domain.HierarchyEdge
	err := i.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		var err error
		out, err = i.ExecuteIn(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ExecuteIn saves the edge inside tx. Turning the main child flag on clears
// it on every other live edge of the same parent.
func (i *Interactor) ExecuteIn(ctx context.Context, tx committer.Tx, req *Request) (*domain.HierarchyEdge, error) {
	if req.ParentID == "" {
		return nil, domain.NewValidationError(domain.KeyFieldIsRequired, map[string]any{"field": "Parent"})
	}
	if req.ChildID == "" {
		return nil, domain.NewValidationError(domain.KeyFieldIsRequired, map[string]any{"field": "Child"})
	}

	// 1. Load the stored edge
	existing, err := i.find(ctx, tx, req)
	if err != nil {
		return nil, err
	}

	// 2. Write the edge
	var edge *domain.HierarchyEdge
	mainChanged := false
	if existing == nil {
		if _, err := i.products.GetByID(ctx, tx, req.ParentID); err != nil {
			return nil, err
		}
		if _, err := i.products.GetByID(ctx, tx, req.ChildID); err != nil {
			return nil, err
		}

		edge = &domain.HierarchyEdge{
			ID:        req.ID,
			ParentID:  req.ParentID,
			EntityID:  req.ChildID,
			MainChild: req.MainChild,
			CreatedAt: i.clock.Now(),
		}
		if edge.ID == "" {
			edge.ID = uuid.New().String()
		}
		mainChanged = edge.MainChild
		if err := i.hierarchy.Insert(ctx, tx, edge); err != nil {
			return nil, fmt.Errorf("failed to insert hierarchy edge: %w", err)
		}
		if err := i.products.AdjustChildrenCount(ctx, tx, edge.ParentID, 1); err != nil {
			return nil, fmt.Errorf("failed to update children count: %w", err)
		}
	} else {
		edge = existing.Clone()
		mainChanged = req.MainChild != existing.MainChild
		edge.MainChild = req.MainChild
		if mainChanged {
			if err := i.hierarchy.Update(ctx, tx, edge); err != nil {
				return nil, fmt.Errorf("failed to update hierarchy edge: %w", err)
			}
		}
	}

	// 3. Keep a single main child per parent
	if mainChanged && edge.MainChild {
		others, err := i.hierarchy.MainChildEdges(ctx, tx, edge.ParentID, edge.ID)
		if err != nil {
			return nil, err
		}
		for _, other := range others {
			other.MainChild = false
			if err := i.hierarchy.Update(ctx, tx, other); err != nil {
				return nil, fmt.Errorf("failed to clear main child flag: %w", err)
			}
		}
	}

	return edge, nil
}

func (i *Interactor) find(ctx context.Context, tx committer.Tx, req *Request) (*domain.HierarchyEdge, error) {
	var (
		edge *domain.HierarchyEdge
		err  error
	)
	if req.ID != "" {
		edge, err = i.hierarchy.GetByID(ctx, tx, req.ID)
	} else {
		edge, err = i.hierarchy.FindEdge(ctx, tx, req.ParentID, req.ChildID)
	}
	if errors.Is(err, domain.ErrEdgeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return edge, nil
}
