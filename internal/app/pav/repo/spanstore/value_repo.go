package spanstore

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/models/m_product"
	"github.com/light-bringer/pav-service/internal/models/m_value"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/internal/pkg/query"
)

// ValueRepo implements ValueRepository for Spanner.
type ValueRepo struct {
	model *m_value.Model
}

var _ contracts.ValueRepository = (*ValueRepo)(nil)

// NewValueRepo creates a new ValueRepo.
func NewValueRepo() *ValueRepo {
	return &ValueRepo{model: m_value.NewModel()}
}

func (r *ValueRepo) live() *query.Builder {
	return query.From(m_value.TableName).
		Select(r.model.Columns()...).
		Where(query.Eq(m_value.Deleted, false))
}

// GetByID retrieves a live value by ID.
func (r *ValueRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Value, error) {
	data, err := queryOne[m_value.Data](ctx, tx, r.live().Where(query.Eq(m_value.ID, id)).Build())
	if err != nil {
		return nil, fmt.Errorf("failed to read value: %w", err)
	}
	if data == nil {
		return nil, domain.ErrValueNotFound
	}
	return valueToDomain(data), nil
}

// Insert creates a row.
func (r *ValueRepo) Insert(ctx context.Context, tx committer.Tx, v *domain.Value) error {
	_, err := exec(ctx, tx, r.model.InsertStmt(valueToData(v)))
	return err
}

// Update rewrites a row.
func (r *ValueRepo) Update(ctx context.Context, tx committer.Tx, v *domain.Value) error {
	n, err := exec(ctx, tx, r.model.UpdateStmt(valueToData(v)))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrValueNotFound
	}
	return nil
}

// SoftDelete marks a row deleted.
func (r *ValueRepo) SoftDelete(ctx context.Context, tx committer.Tx, id string, at time.Time, actorID string) error {
	n, err := exec(ctx, tx, r.model.SoftDeleteStmt(id, at, actorID))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrValueNotFound
	}
	return nil
}

// ClearRecord resets every typed slot of a row.
func (r *ValueRepo) ClearRecord(ctx context.Context, tx committer.Tx, id string) error {
	n, err := exec(ctx, tx, r.model.ClearStmt(id))
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrValueNotFound
	}
	return nil
}

// DeleteByAttribute removes every row of an attribute.
func (r *ValueRepo) DeleteByAttribute(ctx context.Context, tx committer.Tx, attributeID string) (int64, error) {
	return exec(ctx, tx, r.model.DeleteByAttributeStmt(attributeID))
}

// ListByProducts returns the live rows of the given products in creation
// order.
func (r *ValueRepo) ListByProducts(ctx context.Context, tx committer.Tx, productIDs []string) ([]*domain.Value, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	stmt := r.live().
		Where(query.In(m_value.ProductID, productIDs)).
		OrderBy(m_value.CreatedAt, query.Asc).
		ThenBy(m_value.ID, query.Asc).
		Build()

	rows, err := queryAll[m_value.Data](ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to list values: %w", err)
	}
	out := make([]*domain.Value, 0, len(rows))
	for _, d := range rows {
		out = append(out, valueToDomain(d))
	}
	return out, nil
}

// FindDuplicate loads the live rows sharing v's attribute, scope, channel
// and language on live products, then compares their typed slots.
func (r *ValueRepo) FindDuplicate(ctx context.Context, tx committer.Tx, v *domain.Value) (bool, error) {
	b := r.live().
		Where(query.Ne(m_value.ID, v.ID)).
		Where(query.Eq(m_value.AttributeID, v.AttributeID)).
		Where(query.Eq(m_value.Language, v.Language)).
		Where(query.Eq(m_value.Scope, string(v.Scope))).
		Where(query.Raw(m_value.ProductID+" IN (SELECT "+m_product.ProductID+" FROM "+m_product.TableName+" WHERE "+m_product.Deleted+" = FALSE)", nil))
	if v.Scope == domain.ScopeChannel {
		b = b.Where(query.Eq(m_value.ChannelID, v.ChannelID))
	}

	rows, err := queryAll[m_value.Data](ctx, tx, b.Build())
	if err != nil {
		return false, fmt.Errorf("failed to look up duplicates: %w", err)
	}

	slots := domain.ComparedSlots(v.AttributeType)
	for _, d := range rows {
		other := valueToDomain(d)
		same := true
		for _, slot := range slots {
			if !domain.SlotEqual(v.AttributeType, slot, v, other) {
				same = false
				break
			}
		}
		if same {
			return true, nil
		}
	}
	return false, nil
}

// liveKey is the composite key of a live value.
func liveKey(v *domain.Value) spanner.NullString {
	if v.Deleted {
		return spanner.NullString{}
	}
	channel := ""
	if v.Scope == domain.ScopeChannel {
		channel = v.ChannelID
	}
	return spanner.NullString{
		StringVal: strings.Join([]string{v.ProductID, v.AttributeID, string(v.Scope), channel, v.Language}, "|"),
		Valid:     true,
	}
}

func valueToData(v *domain.Value) *m_value.Data {
	d := &m_value.Data{
		ID:                            v.ID,
		ProductID:                     v.ProductID,
		AttributeID:                   v.AttributeID,
		Scope:                         string(v.Scope),
		ChannelID:                     v.ChannelID,
		Language:                      v.Language,
		LiveKey:                       liveKey(v),
		IsVariantSpecificAttribute:    v.IsVariantSpecificAttribute,
		AttributeType:                 string(v.AttributeType),
		VarcharValue:                  nullString(v.VarcharValue),
		TextValue:                     nullString(v.TextValue),
		BoolValue:                     v.BoolValue,
		IntValue:                      nullInt(v.IntValue),
		IntValue1:                     nullInt(v.IntValue1),
		FloatValue:                    nullFloat(v.FloatValue),
		FloatValue1:                   nullFloat(v.FloatValue1),
		ReferenceValue:                nullString(v.ReferenceValue),
		IsRequired:                    v.IsRequired,
		MaxLength:                     nullInt(v.MaxLength),
		Min:                           nullFloat(v.Min),
		Max:                           nullFloat(v.Max),
		CountBytesInsteadOfCharacters: v.CountBytesInsteadOfCharacters,
		AmountOfDigitsAfterComma:      nullInt(v.AmountOfDigitsAfterComma),
		OwnerUserID:                   v.OwnerUserID,
		AssignedUserID:                v.AssignedUserID,
		TeamsIDs:                      v.TeamsIDs,
		Deleted:                       v.Deleted,
		CreatedAt:                     v.CreatedAt,
		ModifiedAt:                    v.ModifiedAt,
		CreatedByID:                   v.CreatedByID,
		ModifiedByID:                  v.ModifiedByID,
	}
	if v.DateValue != nil {
		d.DateValue = spanner.NullDate{Date: *v.DateValue, Valid: true}
	}
	if v.DatetimeValue != nil {
		d.DatetimeValue = spanner.NullTime{Time: *v.DatetimeValue, Valid: true}
	}
	return d
}

func valueToDomain(d *m_value.Data) *domain.Value {
	v := &domain.Value{
		ID:                            d.ID,
		ProductID:                     d.ProductID,
		AttributeID:                   d.AttributeID,
		Scope:                         domain.Scope(d.Scope),
		ChannelID:                     d.ChannelID,
		Language:                      d.Language,
		IsVariantSpecificAttribute:    d.IsVariantSpecificAttribute,
		AttributeType:                 domain.AttributeType(d.AttributeType),
		VarcharValue:                  stringPtr(d.VarcharValue),
		TextValue:                     stringPtr(d.TextValue),
		BoolValue:                     d.BoolValue,
		IntValue:                      intPtr(d.IntValue),
		IntValue1:                     intPtr(d.IntValue1),
		FloatValue:                    floatPtr(d.FloatValue),
		FloatValue1:                   floatPtr(d.FloatValue1),
		ReferenceValue:                stringPtr(d.ReferenceValue),
		IsRequired:                    d.IsRequired,
		MaxLength:                     intPtr(d.MaxLength),
		Min:                           floatPtr(d.Min),
		Max:                           floatPtr(d.Max),
		CountBytesInsteadOfCharacters: d.CountBytesInsteadOfCharacters,
		AmountOfDigitsAfterComma:      intPtr(d.AmountOfDigitsAfterComma),
		OwnerUserID:                   d.OwnerUserID,
		AssignedUserID:                d.AssignedUserID,
		TeamsIDs:                      d.TeamsIDs,
		Deleted:                       d.Deleted,
		CreatedAt:                     d.CreatedAt,
		ModifiedAt:                    d.ModifiedAt,
		CreatedByID:                   d.CreatedByID,
		ModifiedByID:                  d.ModifiedByID,
	}
	if d.DateValue.Valid {
		date := d.DateValue.Date
		v.DateValue = &date
	}
	if d.DatetimeValue.Valid {
		at := d.DatetimeValue.Time
		v.DatetimeValue = &at
	}
	return v
}
