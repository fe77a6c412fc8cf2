package delete_value

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/propagation"
	"github.com/light-bringer/pav-service/internal/app/pav/valuestore"
	"github.com/light-bringer/pav-service/internal/pkg/actor"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request contains the value to delete.
type Request struct {
	ID string

	// SimpleRemove deletes the value without cascading to descendants.
	SimpleRemove bool

	// Replay is set when a pseudo transaction job is executed.
	Replay bool
}

// Interactor handles the delete value use case.
type Interactor struct {
	uow    committer.UnitOfWork
	values contracts.ValueRepository
	store  *valuestore.Store
	engine *propagation.Engine
	logger *zap.Logger
}

// NewInteractor creates a new delete value interactor.
func NewInteractor(
	uow committer.UnitOfWork,
	values contracts.ValueRepository,
	store *valuestore.Store,
	engine *propagation.Engine,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		uow:    uow,
		values: values,
		store:  store,
		engine: engine,
		logger: logger,
	}
}

// Execute deletes a value in its own unit of work.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	return i.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		return i.ExecuteIn(ctx, tx, req)
	})
}

// ExecuteIn enqueues the deletion of the descendants' counterparts and then
// deletes the value, inside tx.
func (i *Interactor) ExecuteIn(ctx context.Context, tx committer.Tx, req *Request) error {
	pav, err := i.values.GetByID(ctx, tx, req.ID)
	if err != nil {
		return err
	}

	if !req.SimpleRemove && i.engine.Enabled(req.Replay) {
		if err := i.engine.DeleteCascade(ctx, tx, pav, ""); err != nil {
			return fmt.Errorf("failed to enqueue delete cascade: %w", err)
		}
	}

	if err := i.store.Remove(ctx, tx, pav, actor.From(ctx)); err != nil {
		return err
	}

	i.logger.Debug("value deleted",
		zap.String("pav_id", pav.ID),
		zap.String("product_id", pav.ProductID),
		zap.Bool("replay", req.Replay),
	)
	return nil
}
