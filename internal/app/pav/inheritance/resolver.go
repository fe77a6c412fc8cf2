// Package inheritance decides how values of a product relate to the values of
// its parent and child products.
package inheritance

import (
	"context"
	"errors"
	"fmt"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

const (
	parentValuesMemo   = "parent-values:"
	classificationMemo = "classification-attributes:"
)

// Resolver reads the hierarchy around a value. Parent values and
// classification overrides are memoized on the unit of work.
type Resolver struct {
	values     contracts.ValueRepository
	products   contracts.ProductRepository
	hierarchy  contracts.HierarchyRepository
	classAttrs contracts.ClassificationAttributeRepository
}

// NewResolver creates a new Resolver.
func NewResolver(
	values contracts.ValueRepository,
	products contracts.ProductRepository,
	hierarchy contracts.HierarchyRepository,
	classAttrs contracts.ClassificationAttributeRepository,
) *Resolver {
	return &Resolver{
		values:     values,
		products:   products,
		hierarchy:  hierarchy,
		classAttrs: classAttrs,
	}
}

// ChildValue is the counterpart of a value on a direct child product.
type ChildValue struct {
	Value         *domain.Value
	ProductName   string
	ChildrenCount int64
}

// ParentsValues returns the live values of the parents of productID, or nil
// when the parents have none.
func (r *Resolver) ParentsValues(ctx context.Context, tx committer.Tx, productID string) ([]*domain.Value, error) {
	key := parentValuesMemo + productID
	if cached, ok := tx.Memo(key); ok {
		return cached.([]*domain.Value), nil
	}

	parentIDs, err := r.hierarchy.ParentIDs(ctx, tx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list parents: %w", err)
	}

	var values []*domain.Value
	if len(parentIDs) > 0 {
		values, err = r.values.ListByProducts(ctx, tx, parentIDs)
		if err != nil {
			return nil, fmt.Errorf("failed to list parent values: %w", err)
		}
		if len(values) == 0 {
			values = nil
		}
	}

	tx.SetMemo(key, values)
	return values, nil
}

// Forget drops memoized parent values. Call it after writing values that
// later reads in the same unit of work must see.
func (r *Resolver) Forget(tx committer.Tx) {
	tx.ForgetMemo(parentValuesMemo)
}

// ParentValue returns the parent counterpart of v: same attribute, scope and
// language, and the same channel when channel scoped. It returns nil when
// there is none.
func (r *Resolver) ParentValue(ctx context.Context, tx committer.Tx, v *domain.Value) (*domain.Value, error) {
	parents, err := r.ParentsValues(ctx, tx, v.ProductID)
	if err != nil {
		return nil, err
	}
	for _, p := range parents {
		if p.AttributeID != v.AttributeID || p.Scope != v.Scope || p.Language != v.Language {
			continue
		}
		if v.Scope == domain.ScopeChannel && p.ChannelID != v.ChannelID {
			continue
		}
		return p, nil
	}
	return nil, nil
}

// IsRelationInherited reports whether v has a parent counterpart.
func (r *Resolver) IsRelationInherited(ctx context.Context, tx committer.Tx, v *domain.Value) (bool, error) {
	p, err := r.ParentValue(ctx, tx, v)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// IsValueInherited reports whether a parent value with the same attribute,
// channel, language and variant flag holds the same value as v. It returns
// nil when the parents have no values at all.
func (r *Resolver) IsValueInherited(ctx context.Context, tx committer.Tx, v *domain.Value) (*bool, error) {
	parents, err := r.ParentsValues(ctx, tx, v.ProductID)
	if err != nil {
		return nil, err
	}
	if parents == nil {
		return nil, nil
	}

	inherited := false
	for _, p := range parents {
		if p.AttributeID == v.AttributeID &&
			p.ChannelID == v.ChannelID &&
			p.Language == v.Language &&
			p.IsVariantSpecificAttribute == v.IsVariantSpecificAttribute &&
			r.ValuesEqual(p, v) {
			inherited = true
			break
		}
	}
	return &inherited, nil
}

// ValuesEqual reports whether a and b hold the same effective value.
func (r *Resolver) ValuesEqual(a, b *domain.Value) bool {
	return domain.ValuesEqual(a, b)
}

// FindClassificationAttribute returns the first override of v among the
// classifications of its product, in classification order.
func (r *Resolver) FindClassificationAttribute(ctx context.Context, tx committer.Tx, v *domain.Value) (*domain.ClassificationAttribute, error) {
	product, err := r.products.GetByID(ctx, tx, v.ProductID)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load product: %w", err)
	}

	for _, classificationID := range product.ClassificationIDs {
		overrides, err := r.classificationAttributes(ctx, tx, classificationID)
		if err != nil {
			return nil, err
		}
		for _, ca := range overrides {
			if ca.Matches(v) {
				return ca, nil
			}
		}
	}
	return nil, nil
}

func (r *Resolver) classificationAttributes(ctx context.Context, tx committer.Tx, classificationID string) ([]*domain.ClassificationAttribute, error) {
	key := classificationMemo + classificationID
	if cached, ok := tx.Memo(key); ok {
		return cached.([]*domain.ClassificationAttribute), nil
	}
	list, err := r.classAttrs.ListByClassification(ctx, tx, classificationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classification attributes: %w", err)
	}
	tx.SetMemo(key, list)
	return list, nil
}

// ChildValueForProduct returns the counterpart of parent on childProductID:
// same attribute, language, scope and variant flag, and the same channel when
// channel scoped. It returns nil when there is none.
func (r *Resolver) ChildValueForProduct(ctx context.Context, tx committer.Tx, parent *domain.Value, childProductID string) (*domain.Value, error) {
	values, err := r.values.ListByProducts(ctx, tx, []string{childProductID})
	if err != nil {
		return nil, fmt.Errorf("failed to list child values: %w", err)
	}
	for _, v := range values {
		if domain.Counterpart(parent, v) {
			return v, nil
		}
	}
	return nil, nil
}

// ChildrenValues returns the counterparts of parent on the direct children of
// its product, in hierarchy order. Children without a counterpart are
// skipped.
func (r *Resolver) ChildrenValues(ctx context.Context, tx committer.Tx, parent *domain.Value) ([]ChildValue, error) {
	children, err := r.hierarchy.Children(ctx, tx, parent.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}
	if len(children) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.ID)
	}
	values, err := r.values.ListByProducts(ctx, tx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to list child values: %w", err)
	}

	var out []ChildValue
	for _, c := range children {
		for _, v := range values {
			if v.ProductID == c.ID && domain.Counterpart(parent, v) {
				out = append(out, ChildValue{Value: v, ProductName: c.Name, ChildrenCount: c.ChildrenCount})
				break
			}
		}
	}
	return out, nil
}
