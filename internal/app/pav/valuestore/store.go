// Package valuestore persists single attribute values: it normalizes the key,
// copies attribute constraints, validates, rounds and enforces uniqueness
// before writing, and stamps the owning product afterwards.
package valuestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/clock"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/internal/pkg/metrics"
)

// OverrideFinder resolves the classification override of a value.
type OverrideFinder interface {
	FindClassificationAttribute(ctx context.Context, tx committer.Tx, v *domain.Value) (*domain.ClassificationAttribute, error)
}

// Deps are the collaborators of a Store.
type Deps struct {
	UnitOfWork  committer.UnitOfWork
	Values      contracts.ValueRepository
	Attributes  contracts.AttributeRepository
	ClassAttrs  contracts.ClassificationAttributeRepository
	Units       contracts.UnitRepository
	EnumOptions contracts.EnumOptionRepository
	Channels    contracts.ChannelRepository
	Products    contracts.ProductRepository
	Notes       contracts.NoteSink
	Files       contracts.FileMover
	Overrides   OverrideFinder
	Clock       clock.Clock
	Logger      *zap.Logger
}

// Store saves and removes values.
type Store struct {
	uow         committer.UnitOfWork
	values      contracts.ValueRepository
	attributes  contracts.AttributeRepository
	classAttrs  contracts.ClassificationAttributeRepository
	units       contracts.UnitRepository
	enumOptions contracts.EnumOptionRepository
	channels    contracts.ChannelRepository
	products    contracts.ProductRepository
	notes       contracts.NoteSink
	files       contracts.FileMover
	overrides   OverrideFinder
	clock       clock.Clock
	logger      *zap.Logger
}

// New creates a new Store.
func New(d Deps) *Store {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		uow:         d.UnitOfWork,
		values:      d.Values,
		attributes:  d.Attributes,
		classAttrs:  d.ClassAttrs,
		units:       d.Units,
		enumOptions: d.EnumOptions,
		channels:    d.Channels,
		products:    d.Products,
		notes:       d.Notes,
		files:       d.Files,
		overrides:   d.Overrides,
		clock:       d.Clock,
		logger:      logger,
	}
}

// SaveOptions carries what a save needs besides the value itself.
type SaveOptions struct {
	// Before is the stored row prior to this save, nil for new values.
	Before *domain.Value

	// Input is the payload the value was built from. Notes are only written
	// for saves that carry one.
	Input *domain.Input

	ActorID string

	// CheckRequired rejects empty values of required attributes.
	CheckRequired bool
}

// Save validates and persists pav inside tx, or in its own unit of work when
// tx is nil. pav is updated in place with the normalized key, constraints,
// defaults and rounded slots that were written.
func (s *Store) Save(ctx context.Context, tx committer.Tx, pav *domain.Value, opts SaveOptions) error {
	err := s.uow.Do(ctx, tx, func(ctx context.Context, tx committer.Tx) error {
		return s.save(ctx, tx, pav, opts)
	})
	metrics.RecordValueSave(outcome(err))
	return err
}

func (s *Store) save(ctx context.Context, tx committer.Tx, pav *domain.Value, opts SaveOptions) error {
	if pav.ProductID == "" {
		return domain.NewValidationError(domain.KeyFieldIsRequired, map[string]any{"field": "Product"})
	}
	if pav.AttributeID == "" {
		return domain.NewValidationError(domain.KeyFieldIsRequired, map[string]any{"field": "Attribute"})
	}

	pav.Normalize()
	isNew := opts.Before == nil
	if pav.ID == "" {
		pav.ID = uuid.New().String()
	}

	attr, err := s.Attribute(ctx, tx, pav.AttributeID)
	if err != nil {
		return err
	}
	pav.AttributeType = attr.Type

	override, err := s.overrides.FindClassificationAttribute(ctx, tx, pav)
	if err != nil {
		return fmt.Errorf("failed to find classification attribute: %w", err)
	}
	ApplyConstraints(attr, pav, override)

	if opts.CheckRequired && pav.IsRequired && domain.View(pav).IsEmpty() {
		return domain.NewValidationError(domain.KeyFieldIsRequired, map[string]any{"field": "value"})
	}
	if err := s.validate(ctx, tx, attr, pav); err != nil {
		return err
	}

	if isNew && attr.MeasureID != "" && attr.DefaultUnit != "" && (pav.ReferenceValue == nil || *pav.ReferenceValue == "") {
		pav.ReferenceValue = domain.Ptr(attr.DefaultUnit)
	}

	domain.Round(pav)

	if !isNew && attr.Unique && !domain.ValuesEqual(opts.Before, pav) {
		dup, err := s.values.FindDuplicate(ctx, tx, pav)
		if err != nil {
			return fmt.Errorf("failed to check value uniqueness: %w", err)
		}
		if dup {
			return s.duplicate(ctx, tx, domain.KeyAttributeShouldBeUnique, attr, pav)
		}
	}

	now := s.clock.Now()
	pav.ModifiedAt = now
	pav.ModifiedByID = opts.ActorID
	if isNew {
		pav.CreatedAt = now
		pav.CreatedByID = opts.ActorID
		err = s.values.Insert(ctx, tx, pav)
	} else {
		pav.CreatedAt = opts.Before.CreatedAt
		pav.CreatedByID = opts.Before.CreatedByID
		err = s.values.Update(ctx, tx, pav)
	}
	if errors.Is(err, contracts.ErrUniqueViolation) {
		return s.duplicate(ctx, tx, domain.KeyAttributeRecordAlreadyExists, attr, pav)
	}
	if err != nil {
		return fmt.Errorf("failed to persist value: %w", err)
	}

	if err := s.products.Touch(ctx, tx, pav.ProductID, now, opts.ActorID); err != nil {
		return fmt.Errorf("failed to update product modified data: %w", err)
	}

	if attr.Type == domain.TypeImage && pav.ReferenceValue != nil && *pav.ReferenceValue != "" {
		if err := s.files.MoveFromTmp(ctx, tx, *pav.ReferenceValue); err != nil {
			return fmt.Errorf("failed to move image from tmp: %w", err)
		}
	}

	s.writeNote(ctx, tx, opts, pav, now)
	return nil
}

// Attribute returns the attribute of a value, memoized on tx. A missing
// attribute schedules the removal of every value and classification link
// still referencing it and fails with domain.ErrAttributeNotFound.
func (s *Store) Attribute(ctx context.Context, tx committer.Tx, id string) (*domain.Attribute, error) {
	key := "attribute:" + id
	if cached, ok := tx.Memo(key); ok {
		return cached.(*domain.Attribute), nil
	}

	attr, err := s.attributes.GetByID(ctx, tx, id)
	if errors.Is(err, domain.ErrAttributeNotFound) {
		s.scheduleOrphanCleanup(tx, id)
		return nil, fmt.Errorf("attribute %q does not exist: %w", id, domain.ErrAttributeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load attribute: %w", err)
	}

	tx.SetMemo(key, attr)
	return attr, nil
}

// scheduleOrphanCleanup runs the cleanup in its own unit of work once tx is
// finished, so that it survives the rollback caused by the not found error.
func (s *Store) scheduleOrphanCleanup(tx committer.Tx, attributeID string) {
	tx.After(func(ctx context.Context) {
		err := s.uow.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
			if _, err := s.classAttrs.DeleteByAttribute(ctx, tx, attributeID); err != nil {
				return fmt.Errorf("failed to delete classification attributes: %w", err)
			}
			if _, err := s.values.DeleteByAttribute(ctx, tx, attributeID); err != nil {
				return fmt.Errorf("failed to delete values: %w", err)
			}
			return nil
		})
		if err != nil {
			s.logger.Error("failed to remove values of a deleted attribute",
				zap.String("attribute_id", attributeID),
				zap.Error(err),
			)
			return
		}
		s.logger.Info("removed values of a deleted attribute", zap.String("attribute_id", attributeID))
	})
}

// ApplyConstraints copies the attribute constraints onto v, overridden by the
// classification override when there is one.
func ApplyConstraints(attr *domain.Attribute, v *domain.Value, override *domain.ClassificationAttribute) {
	v.IsRequired = attr.IsRequired
	v.MaxLength = attr.MaxLength
	v.Min = attr.Min
	v.Max = attr.Max
	v.CountBytesInsteadOfCharacters = attr.CountBytesInsteadOfCharacters
	v.AmountOfDigitsAfterComma = attr.AmountOfDigitsAfterComma

	if override != nil {
		v.IsRequired = override.IsRequired
		v.MaxLength = override.MaxLength
		v.CountBytesInsteadOfCharacters = override.CountBytesInsteadOfCharacters
		v.Min = override.Min
		v.Max = override.Max
	}
}

func (s *Store) duplicate(ctx context.Context, tx committer.Tx, key string, attr *domain.Attribute, v *domain.Value) error {
	channel := string(v.Scope)
	if v.Scope == domain.ScopeChannel {
		channel = v.ChannelID
		if ch, err := s.channels.GetByID(ctx, tx, v.ChannelID); err == nil && ch.Name != "" {
			channel = ch.Name
		}
	}
	return &domain.DuplicateValueError{Key: key, Attribute: attr.NameFor(""), Channel: channel}
}

func (s *Store) writeNote(ctx context.Context, tx committer.Tx, opts SaveOptions, pav *domain.Value, at time.Time) {
	data := domain.BuildNoteData(opts.Before, pav, opts.Input)
	if data == nil {
		return
	}
	note := &domain.Note{
		ID:          uuid.New().String(),
		Type:        domain.NoteTypeUpdate,
		ParentType:  domain.EntityProduct,
		ParentID:    pav.ProductID,
		AttributeID: pav.AttributeID,
		PavID:       pav.ID,
		Data:        data,
		CreatedByID: opts.ActorID,
		CreatedAt:   at,
	}
	if err := s.notes.Create(ctx, tx, note); err != nil {
		s.logger.Error("failed to write value change note",
			zap.String("pav_id", pav.ID),
			zap.String("product_id", pav.ProductID),
			zap.Error(err),
		)
	}
}

// Remove soft-deletes pav and stamps its product.
func (s *Store) Remove(ctx context.Context, tx committer.Tx, pav *domain.Value, actorID string) error {
	return s.uow.Do(ctx, tx, func(ctx context.Context, tx committer.Tx) error {
		now := s.clock.Now()
		if err := s.values.SoftDelete(ctx, tx, pav.ID, now, actorID); err != nil {
			return fmt.Errorf("failed to delete value: %w", err)
		}
		if err := s.products.Touch(ctx, tx, pav.ProductID, now, actorID); err != nil {
			return fmt.Errorf("failed to update product modified data: %w", err)
		}
		pav.Deleted = true
		return nil
	})
}

// ClearRecord resets every typed slot of a value without deleting it.
func (s *Store) ClearRecord(ctx context.Context, tx committer.Tx, id string) error {
	return s.uow.Do(ctx, tx, func(ctx context.Context, tx committer.Tx) error {
		if err := s.values.ClearRecord(ctx, tx, id); err != nil {
			return fmt.Errorf("failed to clear value: %w", err)
		}
		return nil
	})
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "invalid"
	case errors.Is(err, domain.ErrDuplicateValue):
		return "duplicate"
	default:
		return "error"
	}
}
