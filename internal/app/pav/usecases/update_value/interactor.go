package update_value

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/propagation"
	"github.com/light-bringer/pav-service/internal/app/pav/valuestore"
	"github.com/light-bringer/pav-service/internal/pkg/actor"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request contains the value to update and the payload to apply.
type Request struct {
	ID    string
	Input *domain.Input

	// Replay is set when a pseudo transaction job is executed.
	Replay bool
}

// Interactor handles the update value use case.
type Interactor struct {
	uow          committer.UnitOfWork
	values       contracts.ValueRepository
	store        *valuestore.Store
	engine       *propagation.Engine
	completeness bool
	logger       *zap.Logger
}

// NewInteractor creates a new update value interactor.
func NewInteractor(
	uow committer.UnitOfWork,
	values contracts.ValueRepository,
	store *valuestore.Store,
	engine *propagation.Engine,
	completeness bool,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		uow:          uow,
		values:       values,
		store:        store,
		engine:       engine,
		completeness: completeness,
		logger:       logger,
	}
}

// Execute updates a value in its own unit of work.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*domain.Value, error) {
	var out *domain.Value
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

// ExecuteIn updates a value inside tx. The cascade to descendants is
// enqueued against the value as stored before this update, then the update
// itself is saved.
func (i *Interactor) ExecuteIn(ctx context.Context, tx committer.Tx, req *Request) (*domain.Value, error) {
	// 1. Load the stored value
	before, err := i.values.GetByID(ctx, tx, req.ID)
	if err != nil {
		return nil, err
	}

	attr, err := i.store.Attribute(ctx, tx, before.AttributeID)
	if err != nil {
		return nil, err
	}

	// 2. Prepare the payload
	in := req.Input.Clone()
	if in == nil {
		in = &domain.Input{}
	}
	if in.AttributeID == "" {
		in.AttributeID = before.AttributeID
	}
	if in.ValueAddOnlyMode {
		mergeAddOnly(attr.Type, before, in)
	}

	// 3. Cascade
	if i.engine.Enabled(req.Replay) {
		if err := i.engine.UpdateCascade(ctx, tx, before, in, ""); err != nil {
			return nil, fmt.Errorf("failed to enqueue update cascade: %w", err)
		}
	}

	// 4. Apply and save
	pav := before.Clone()
	if err := domain.ApplyInput(pav, attr.Type, in); err != nil {
		return nil, err
	}
	domain.ApplyOwnership(pav, in)

	err = i.store.Save(ctx, tx, pav, valuestore.SaveOptions{
		Before:        before,
		Input:         in,
		ActorID:       actor.From(ctx),
		CheckRequired: !i.completeness,
	})
	if err != nil {
		return nil, err
	}

	i.logger.Debug("value updated",
		zap.String("pav_id", pav.ID),
		zap.String("product_id", pav.ProductID),
		zap.Bool("replay", req.Replay),
	)
	return pav, nil
}

// mergeAddOnly merges the supplied array items into the stored ones, keeping
// the first occurrence of each item.
func mergeAddOnly(t domain.AttributeType, before *domain.Value, in *domain.Input) {
	in.ValueAddOnlyMode = false
	if !t.IsMulti() || in.Value == nil {
		return
	}

	added := in.Clone()
	added.DecodeArrayString()
	var items []any
	if err := json.Unmarshal(added.Value, &items); err != nil {
		items = nil
	}

	merged := domain.DecodeJSONArray(before.TextValue)
	seen := make(map[string]bool, len(merged)+len(items))
	out := make([]any, 0, len(merged)+len(items))
	for _, item := range append(merged, items...) {
		key := string(domain.Raw(item))
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	in.Value = domain.Raw(out)
}
