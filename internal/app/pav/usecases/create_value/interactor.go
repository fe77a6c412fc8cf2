package create_value

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/inheritance"
	"github.com/light-bringer/pav-service/internal/app/pav/propagation"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/inherit_value"
	"github.com/light-bringer/pav-service/internal/app/pav/valuestore"
	"github.com/light-bringer/pav-service/internal/pkg/actor"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request contains the payload of the value to create.
type Request struct {
	Input *domain.Input

	// Replay is set when a pseudo transaction job is executed.
	Replay bool
}

// Response contains the created values, one per requested language.
type Response struct {
	Values []*domain.Value
}

// Interactor handles the create value use case.
type Interactor struct {
	uow          committer.UnitOfWork
	store        *valuestore.Store
	resolver     *inheritance.Resolver
	engine       *propagation.Engine
	inherit      *inherit_value.Interactor
	completeness bool
	logger       *zap.Logger
}

// NewInteractor creates a new create value interactor.
func NewInteractor(
	uow committer.UnitOfWork,
	store *valuestore.Store,
	resolver *inheritance.Resolver,
	engine *propagation.Engine,
	inherit *inherit_value.Interactor,
	completeness bool,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		uow:          uow,
		store:        store,
		resolver:     resolver,
		engine:       engine,
		inherit:      inherit,
		completeness: completeness,
		logger:       logger,
	}
}

// Execute creates the value in its own unit of work.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*Response, error) {
	var resp *Response
	err := i.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		var err error
		resp, err = i.ExecuteIn(ctx, tx, req)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ExecuteIn creates the value inside tx. A payload listing languages creates
// one value per language.
func (i *Interactor) ExecuteIn(ctx context.Context, tx committer.Tx, req *Request) (*Response, error) {
	if req.Input == nil || req.Input.AttributeID == "" {
		return nil, domain.NewValidationError(domain.KeyFieldIsRequired, map[string]any{"field": "Attribute"})
	}

	resp := &Response{}
	if len(req.Input.Languages) > 0 {
		for _, language := range req.Input.Languages {
			in := req.Input.Clone()
			in.Languages = nil
			in.Language = language

			pav, err := i.createOne(ctx, tx, in, req.Replay)
			if err != nil {
				return nil, err
			}
			resp.Values = append(resp.Values, pav)
		}
		return resp, nil
	}

	pav, err := i.createOne(ctx, tx, req.Input.Clone(), req.Replay)
	if err != nil {
		return nil, err
	}
	resp.Values = append(resp.Values, pav)
	return resp, nil
}

func (i *Interactor) createOne(ctx context.Context, tx committer.Tx, in *domain.Input, replay bool) (*domain.Value, error) {
	// 1. Resolve the attribute and fill in defaults
	attr, err := i.store.Attribute(ctx, tx, in.AttributeID)
	if err != nil {
		return nil, err
	}
	applyDefaultScope(attr, in)
	if in.Language == "" {
		in.Language = domain.LanguageMain
	}

	// 2. Build and save the value
	pav := &domain.Value{
		ProductID:   in.ProductID,
		AttributeID: in.AttributeID,
		Scope:       in.Scope,
		Language:    in.Language,
	}
	if in.ChannelID != nil {
		pav.ChannelID = *in.ChannelID
	}
	if err := domain.ApplyInput(pav, attr.Type, in); err != nil {
		return nil, err
	}
	domain.ApplyOwnership(pav, in)

	err = i.store.Save(ctx, tx, pav, valuestore.SaveOptions{
		Input:         in,
		ActorID:       actor.From(ctx),
		CheckRequired: !i.completeness,
	})
	if err != nil {
		return nil, err
	}
	i.resolver.Forget(tx)

	// 3. Inherit the parent value when none was supplied
	if !in.HasValueFields() {
		if _, err := i.inherit.ExecuteIn(ctx, tx, &inherit_value.Request{ID: pav.ID, Replay: replay}); err != nil {
			i.logger.Error("inheriting of value failed",
				zap.String("pav_id", pav.ID),
				zap.String("product_id", pav.ProductID),
				zap.Error(err),
			)
		}
	}

	// 4. Create the values of child attributes
	i.createAssociated(ctx, tx, attr, in, replay)

	// 5. Cascade
	if i.engine.Enabled(replay) {
		if err := i.engine.CreateCascade(ctx, tx, in, ""); err != nil {
			return nil, fmt.Errorf("failed to enqueue create cascade: %w", err)
		}
	}

	return pav, nil
}

// applyDefaultScope uses the attribute's default scope when the payload has
// none. A channel default without a channel falls back to Global.
func applyDefaultScope(attr *domain.Attribute, in *domain.Input) {
	if in.Scope != "" {
		return
	}
	in.Scope = attr.DefaultScope
	if in.Scope == "" {
		in.Scope = domain.ScopeGlobal
	}
	if in.Scope == domain.ScopeChannel {
		if attr.DefaultChannelID == "" {
			in.Scope = domain.ScopeGlobal
			return
		}
		in.ChannelID = domain.Ptr(attr.DefaultChannelID)
	}
}

// createAssociated creates a value for each child attribute on the same
// product. Failures are ignored.
func (i *Interactor) createAssociated(ctx context.Context, tx committer.Tx, attr *domain.Attribute, in *domain.Input, replay bool) {
	for _, childID := range attr.ChildAttributeIDs {
		child := &domain.Input{
			ProductID:      in.ProductID,
			AttributeID:    childID,
			OwnerUserID:    in.OwnerUserID,
			AssignedUserID: in.AssignedUserID,
			TeamsIDs:       in.TeamsIDs,
		}
		if _, err := i.ExecuteIn(ctx, tx, &Request{Input: child, Replay: replay}); err != nil {
			i.logger.Debug("associated value not created",
				zap.String("attribute_id", childID),
				zap.String("product_id", in.ProductID),
				zap.Error(err),
			)
		}
	}
}
