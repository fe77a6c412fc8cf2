// Package propagation cascades value mutations from a product to its
// descendants by enqueuing pseudo transaction jobs.
//
// A cascade never mutates descendants directly. Each level pushes one job
// per child counterpart followed by a product touch job linked to it, and
// recurses only into children that have children of their own.
package propagation

import (
	"context"
	"fmt"
	"slices"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/inheritance"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// RelationValues is the relation name that excludes values from inheritance
// when listed in Policy.UninheritedRelations.
const RelationValues = "productAttributeValues"

// Policy holds the inheritance configuration of products.
type Policy struct {
	RelationInheritance  bool
	UninheritedRelations []string
}

// Allows reports whether cascades run. Replayed jobs never cascade again.
func (p Policy) Allows(replay bool) bool {
	if replay || !p.RelationInheritance {
		return false
	}
	return !slices.Contains(p.UninheritedRelations, RelationValues)
}

// ChildrenFinder lists the counterparts of a value on child products.
type ChildrenFinder interface {
	ChildrenValues(ctx context.Context, tx committer.Tx, parent *domain.Value) ([]inheritance.ChildValue, error)
}

// Engine enqueues cascades.
type Engine struct {
	queue     contracts.JobQueue
	children  ChildrenFinder
	hierarchy contracts.HierarchyRepository
	policy    Policy
}

// NewEngine creates a new Engine.
func NewEngine(queue contracts.JobQueue, children ChildrenFinder, hierarchy contracts.HierarchyRepository, policy Policy) *Engine {
	return &Engine{
		queue:     queue,
		children:  children,
		hierarchy: hierarchy,
		policy:    policy,
	}
}

// Enabled reports whether mutations cascade.
func (e *Engine) Enabled(replay bool) bool {
	return e.policy.Allows(replay)
}

// CreateCascade enqueues the creation of in on every descendant of
// in.ProductID.
func (e *Engine) CreateCascade(ctx context.Context, tx committer.Tx, in *domain.Input, parentTxID string) error {
	if in.ProductID == "" {
		return nil
	}

	children, err := e.hierarchy.Children(ctx, tx, in.ProductID)
	if err != nil {
		return fmt.Errorf("failed to list children of product %s: %w", in.ProductID, err)
	}

	for _, child := range children {
		payload := in.Clone()
		payload.ProductID = child.ID
		payload.ProductName = child.Name

		txID, err := e.queue.PushCreate(ctx, tx, domain.EntityValue, payload, parentTxID)
		if err != nil {
			return err
		}
		if _, err := e.queue.PushUpdate(ctx, tx, domain.EntityProduct, child.ID, nil, txID); err != nil {
			return err
		}
		if child.ChildrenCount > 0 {
			if err := e.CreateCascade(ctx, tx, payload, txID); err != nil {
				return err
			}
		}
	}
	return nil
}

// UpdateCascade enqueues the update in of value before on every descendant.
//
// before is the value as stored prior to the update. Value fields are
// forwarded only to counterparts whose value equals it; the variant flag is
// always forwarded. Each level compares its children against its own stored
// value.
func (e *Engine) UpdateCascade(ctx context.Context, tx committer.Tx, before *domain.Value, in *domain.Input, parentTxID string) error {
	children, err := e.children.ChildrenValues(ctx, tx, before)
	if err != nil {
		return err
	}

	for _, child := range children {
		payload := &domain.Input{}
		if domain.ValuesEqual(before, child.Value) {
			payload.CopyValueFields(in)
		}
		if in.IsVariantSpecificAttribute != nil {
			payload.IsVariantSpecificAttribute = domain.Ptr(*in.IsVariantSpecificAttribute)
		}
		if payload.IsEmpty() {
			continue
		}
		if before.AttributeType.IsMulti() {
			payload.DecodeArrayString()
		}

		txID, err := e.queue.PushUpdate(ctx, tx, domain.EntityValue, child.Value.ID, payload, parentTxID)
		if err != nil {
			return err
		}
		if _, err := e.queue.PushUpdate(ctx, tx, domain.EntityProduct, child.Value.ProductID, nil, txID); err != nil {
			return err
		}
		if child.ChildrenCount > 0 {
			if err := e.UpdateCascade(ctx, tx, child.Value, payload, txID); err != nil {
				return err
			}
		}
	}
	return nil
}

// DeleteCascade enqueues the deletion of the counterparts of v on every
// descendant.
func (e *Engine) DeleteCascade(ctx context.Context, tx committer.Tx, v *domain.Value, parentTxID string) error {
	children, err := e.children.ChildrenValues(ctx, tx, v)
	if err != nil {
		return err
	}

	for _, child := range children {
		txID, err := e.queue.PushDelete(ctx, tx, domain.EntityValue, child.Value.ID, parentTxID)
		if err != nil {
			return err
		}
		if _, err := e.queue.PushUpdate(ctx, tx, domain.EntityProduct, child.Value.ProductID, nil, txID); err != nil {
			return err
		}
		if child.ChildrenCount > 0 {
			if err := e.DeleteCascade(ctx, tx, child.Value, txID); err != nil {
				return err
			}
		}
	}
	return nil
}
