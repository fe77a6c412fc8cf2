package list_values

import (
	"context"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/presentation"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request contains the product whose values are listed.
type Request struct {
	ProductID string
	Locale    string
}

// Query handles the list values query use case.
type Query struct {
	uow      committer.UnitOfWork
	products contracts.ProductRepository
	values   contracts.ValueRepository
	preparer *presentation.Preparer
}

// NewQuery creates a new list values query.
func NewQuery(
	uow committer.UnitOfWork,
	products contracts.ProductRepository,
	values contracts.ValueRepository,
	preparer *presentation.Preparer,
) *Query {
	return &Query{
		uow:      uow,
		products: products,
		values:   values,
		preparer: preparer,
	}
}

// Execute lists the values of a product in display order.
func (q *Query) Execute(ctx context.Context, req *Request) ([]*presentation.Value, error) {
	var out []*presentation.Value
	err := q.uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		if _, err := q.products.GetByID(ctx, tx, req.ProductID); err != nil {
			return err
		}
		values, err := q.values.ListByProducts(ctx, tx, []string{req.ProductID})
		if err != nil {
			return err
		}
		catalog, err := q.preparer.Catalog(ctx, tx, values)
		if err != nil {
			return err
		}

		sorted := presentation.SortValues(values, catalog)
		out = make([]*presentation.Value, 0, len(sorted))
		for _, v := range sorted {
			if _, ok := catalog.Attributes[v.AttributeID]; !ok {
				continue
			}
			pv, err := q.preparer.PrepareValue(ctx, tx, v, req.Locale)
			if err != nil {
				return err
			}
			out = append(out, pv)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
