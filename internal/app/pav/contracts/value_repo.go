package contracts

import (
	"context"
	"errors"
	"time"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// ErrUniqueViolation is returned by a store when a write breaks the composite
// key of values.
var ErrUniqueViolation = errors.New("unique constraint violated")

// ValueRepository persists product attribute values.
//
// Every method runs inside the given unit of work. Reads never return
// soft-deleted rows.
type ValueRepository interface {
	// GetByID returns domain.ErrValueNotFound when no live row exists.
	GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Value, error)

	// Insert creates a row. It returns ErrUniqueViolation when a live row with
	// the same composite key exists.
	Insert(ctx context.Context, tx committer.Tx, v *domain.Value) error

	// Update rewrites a row. It returns ErrUniqueViolation like Insert.
	Update(ctx context.Context, tx committer.Tx, v *domain.Value) error

	// SoftDelete marks a row deleted.
	SoftDelete(ctx context.Context, tx committer.Tx, id string, at time.Time, actorID string) error

	// ClearRecord resets every typed slot of a row.
	ClearRecord(ctx context.Context, tx committer.Tx, id string) error

	// DeleteByAttribute removes every row of an attribute.
	DeleteByAttribute(ctx context.Context, tx committer.Tx, attributeID string) (int64, error)

	// ListByProducts returns the live rows of the given products.
	ListByProducts(ctx context.Context, tx committer.Tx, productIDs []string) ([]*domain.Value, error)

	// FindDuplicate reports whether another live row of a live product holds
	// the same typed value for the same attribute, scope, channel and
	// language as v. Slots compared are domain.ComparedSlots of v's type.
	FindDuplicate(ctx context.Context, tx committer.Tx, v *domain.Value) (bool, error)
}
