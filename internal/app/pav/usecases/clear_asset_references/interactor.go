package clear_asset_references

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// Request names the file of a removed asset.
type Request struct {
	FileID string
}

// Interactor handles the asset removed use case.
type Interactor struct {
	uow      committer.UnitOfWork
	products contracts.ProductRepository
	logger   *zap.Logger
}

// NewInteractor creates a new asset removed interactor.
func NewInteractor(uow committer.UnitOfWork, products contracts.ProductRepository, logger *zap.Logger) *Interactor {
	return &Interactor{
		uow:      uow,
		products: products,
		logger:   logger,
	}
}

// Execute unsets the main image of every product showing the file.
func (i *Interactor) Execute(ctx context.Context, req *Request) (int64, error) {
	var cleared int64
	err := i.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		var err error
		cleared, err = i.products.ClearImage(ctx, tx, req.FileID)
		if err != nil {
			return fmt.Errorf("failed to clear image references: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	i.logger.Info("image references cleared",
		zap.String("file_id", req.FileID),
		zap.Int64("products", cleared),
	)
	return cleared, nil
}
