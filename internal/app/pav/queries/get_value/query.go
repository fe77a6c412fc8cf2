package get_value

import (
	"context"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/presentation"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request contains the value ID to retrieve and the reader's locale.
type Request struct {
	ID     string
	Locale string
}

// Query handles the get value query use case.
type Query struct {
	uow      committer.UnitOfWork
	values   contracts.ValueRepository
	preparer *presentation.Preparer
}

// NewQuery creates a new get value query.
func NewQuery(uow committer.UnitOfWork, values contracts.ValueRepository, preparer *presentation.Preparer) *Query {
	return &Query{
		uow:      uow,
		values:   values,
		preparer: preparer,
	}
}

// Execute retrieves a value by ID, decorated for output.
func (q *Query) Execute(ctx context.Context, req *Request) (*presentation.Value, error) {
	var out *presentation.Value
	err := q.uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		v, err := q.values.GetByID(ctx, tx, req.ID)
		if err != nil {
			return err
		}
		out, err = q.preparer.PrepareValue(ctx, tx, v, req.Locale)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
