package list_groups

import (
	"context"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/presentation"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request selects the product and attribute tab. An empty TabID selects
// attributes that are on no tab.
type Request struct {
	ProductID    string
	TabID        string
	NoGroupLabel string
}

// Query handles the list attribute groups query use case.
type Query struct {
	uow        committer.UnitOfWork
	products   contracts.ProductRepository
	values     contracts.ValueRepository
	attributes contracts.AttributeRepository
	preparer   *presentation.Preparer
}

// NewQuery creates a new list attribute groups query.
func NewQuery(
	uow committer.UnitOfWork,
	products contracts.ProductRepository,
	values contracts.ValueRepository,
	attributes contracts.AttributeRepository,
	preparer *presentation.Preparer,
) *Query {
	return &Query{
		uow:        uow,
		products:   products,
		values:     values,
		attributes: attributes,
		preparer:   preparer,
	}
}

// Execute returns the attribute groups of the product's values on the tab.
func (q *Query) Execute(ctx context.Context, req *Request) ([]presentation.Group, error) {
	var out []presentation.Group
	err := q.uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		if _, err := q.products.GetByID(ctx, tx, req.ProductID); err != nil {
			return err
		}

		tabAttrs, err := q.attributes.ListByTab(ctx, tx, req.TabID)
		if err != nil {
			return err
		}
		onTab := make(map[string]bool, len(tabAttrs))
		for _, a := range tabAttrs {
			onTab[a.ID] = true
		}

		values, err := q.values.ListByProducts(ctx, tx, []string{req.ProductID})
		if err != nil {
			return err
		}
		filtered := make([]*domain.Value, 0, len(values))
		for _, v := range values {
			if onTab[v.AttributeID] {
				filtered = append(filtered, v)
			}
		}

		catalog, err := q.preparer.Catalog(ctx, tx, filtered)
		if err != nil {
			return err
		}
		out = presentation.Groups(filtered, catalog, req.NoGroupLabel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
