package unlink_group

import (
	"context"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/delete_value"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request identifies the attribute group to remove from a product.
type Request struct {
	ProductID        string
	AttributeGroupID string

	// Hierarchically also removes the counterparts on descendant products.
	Hierarchically bool
}

// Interactor handles the unlink attribute group use case.
type Interactor struct {
	uow        committer.UnitOfWork
	values     contracts.ValueRepository
	attributes contracts.AttributeRepository
	remove     *delete_value.Interactor
	logger     *zap.Logger
}

// NewInteractor creates a new unlink attribute group interactor.
func NewInteractor(
	uow committer.UnitOfWork,
	values contracts.ValueRepository,
	attributes contracts.AttributeRepository,
	remove *delete_value.Interactor,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		uow:        uow,
		values:     values,
		attributes: attributes,
		remove:     remove,
		logger:     logger,
	}
}

// Execute removes every value of the group from the product. Each value is
// removed in its own unit of work; failures are logged and skipped. It
// returns the number of values removed.
func (i *Interactor) Execute(ctx context.Context, req *Request) (int, error) {
	var ids []string
	err := i.uow.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		values, err := i.values.ListByProducts(ctx, tx, []string{req.ProductID})
		if err != nil {
			return err
		}
		attrIDs := make([]string, 0, len(values))
		for _, v := range values {
			attrIDs = append(attrIDs, v.AttributeID)
		}
		attrs, err := i.attributes.ListByIDs(ctx, tx, attrIDs)
		if err != nil {
			return err
		}
		inGroup := make(map[string]bool, len(attrs))
		for _, a := range attrs {
			if a.AttributeGroupID == req.AttributeGroupID {
				inGroup[a.ID] = true
			}
		}
		for _, v := range values {
			if inGroup[v.AttributeID] {
				ids = append(ids, v.ID)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		err := i.remove.Execute(ctx, &delete_value.Request{ID: id, SimpleRemove: !req.Hierarchically})
		if err != nil {
			i.logger.Error("attribute group removing from product failed",
				zap.String("pav_id", id),
				zap.String("product_id", req.ProductID),
				zap.String("attribute_group_id", req.AttributeGroupID),
				zap.Error(err),
			)
			continue
		}
		removed++
	}
	return removed, nil
}
