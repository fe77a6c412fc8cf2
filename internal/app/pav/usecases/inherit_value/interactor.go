package inherit_value

import (
	"context"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/inheritance"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/update_value"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request contains the value to overwrite with its parent's value.
type Request struct {
	ID     string
	Replay bool
}

// Interactor handles the inherit value use case.
type Interactor struct {
	uow      committer.UnitOfWork
	values   contracts.ValueRepository
	resolver *inheritance.Resolver
	update   *update_value.Interactor
}

// NewInteractor creates a new inherit value interactor.
func NewInteractor(
	uow committer.UnitOfWork,
	values contracts.ValueRepository,
	resolver *inheritance.Resolver,
	update *update_value.Interactor,
) *Interactor {
	return &Interactor{
		uow:      uow,
		values:   values,
		resolver: resolver,
		update:   update,
	}
}

// Execute copies the parent value in its own unit of work. It reports false
// when the value has no parent counterpart.
func (i *Interactor) Execute(ctx context.Context, req *Request) (bool, error) {
	var inherited bool
	err := i.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		var err error
		inherited, err = i.ExecuteIn(ctx, tx, req)
		return err
	})
	return inherited, err
}

// ExecuteIn copies the value fields and the variant flag of the parent
// counterpart onto the value through a regular update, inside tx.
func (i *Interactor) ExecuteIn(ctx context.Context, tx committer.Tx, req *Request) (bool, error) {
	pav, err := i.values.GetByID(ctx, tx, req.ID)
	if err != nil {
		return false, err
	}

	parent, err := i.resolver.ParentValue(ctx, tx, pav)
	if err != nil {
		return false, err
	}
	if parent == nil {
		return false, nil
	}

	in := domain.InputFromView(parent.AttributeType, domain.View(parent))
	in.IsVariantSpecificAttribute = domain.Ptr(parent.IsVariantSpecificAttribute)

	if _, err := i.update.ExecuteIn(ctx, tx, &update_value.Request{ID: pav.ID, Input: in, Replay: req.Replay}); err != nil {
		return false, err
	}
	return true, nil
}
