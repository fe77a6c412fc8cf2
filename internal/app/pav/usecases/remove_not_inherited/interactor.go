package remove_not_inherited

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/valuestore"
	"github.com/light-bringer/pav-service/internal/pkg/actor"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request selects the product and the attribute tab to clear. An empty
// TabID selects attributes that are on no tab.
type Request struct {
	ProductID string
	TabID     string
}

// Interactor handles the remove values by tab use case.
type Interactor struct {
	uow        committer.UnitOfWork
	values     contracts.ValueRepository
	attributes contracts.AttributeRepository
	store      *valuestore.Store
	logger     *zap.Logger
}

// NewInteractor creates a new remove values by tab interactor.
func NewInteractor(
	uow committer.UnitOfWork,
	values contracts.ValueRepository,
	attributes contracts.AttributeRepository,
	store *valuestore.Store,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		uow:        uow,
		values:     values,
		attributes: attributes,
		store:      store,
		logger:     logger,
	}
}

// Execute removes the product's values of every attribute on the tab in one
// unit of work. Values are removed without cascading; validation failures
// are skipped. It returns the number of values removed.
func (i *Interactor) Execute(ctx context.Context, req *Request) (int, error) {
	removed := 0
	err := i.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		removed = 0

		attrs, err := i.attributes.ListByTab(ctx, tx, req.TabID)
		if err != nil {
			return err
		}
		onTab := make(map[string]bool, len(attrs))
		for _, a := range attrs {
			onTab[a.ID] = true
		}

		values, err := i.values.ListByProducts(ctx, tx, []string{req.ProductID})
		if err != nil {
			return err
		}

		actorID := actor.From(ctx)
		for _, v := range values {
			if !onTab[v.AttributeID] {
				continue
			}
			if err := i.store.Remove(ctx, tx, v, actorID); err != nil {
				if errors.Is(err, domain.ErrValidation) {
					continue
				}
				return err
			}
			removed++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	i.logger.Info("values removed by tab",
		zap.String("product_id", req.ProductID),
		zap.String("tab_id", req.TabID),
		zap.Int("removed", removed),
	)
	return removed, nil
}
