package contracts

import (
	"context"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// AttributeRepository reads attribute definitions.
type AttributeRepository interface {
	// GetByID returns domain.ErrAttributeNotFound for missing attributes.
	GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Attribute, error)

	// ListByIDs returns the attributes that exist among ids.
	ListByIDs(ctx context.Context, tx committer.Tx, ids []string) ([]*domain.Attribute, error)

	// ListByTab returns the attributes of a tab. An empty tabID selects
	// attributes without a tab.
	ListByTab(ctx context.Context, tx committer.Tx, tabID string) ([]*domain.Attribute, error)
}

// ClassificationAttributeRepository reads classification level overrides.
type ClassificationAttributeRepository interface {
	ListByClassification(ctx context.Context, tx committer.Tx, classificationID string) ([]*domain.ClassificationAttribute, error)
	DeleteByAttribute(ctx context.Context, tx committer.Tx, attributeID string) (int64, error)
}

// UnitRepository resolves measure units.
type UnitRepository interface {
	// Exists reports whether unitID is a unit of measureID.
	Exists(ctx context.Context, tx committer.Tx, unitID, measureID string) (bool, error)
}

// EnumOptionRepository resolves extensible enum options.
type EnumOptionRepository interface {
	// ExistingIDs returns the subset of ids that are options of enumID.
	ExistingIDs(ctx context.Context, tx committer.Tx, enumID string, ids []string) ([]string, error)
}

// ChannelRepository reads sales channels.
type ChannelRepository interface {
	// GetByID returns domain.ErrChannelNotFound for missing channels.
	GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Channel, error)
	ListByIDs(ctx context.Context, tx committer.Tx, ids []string) ([]*domain.Channel, error)
}
