package spanstore

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/models/m_attribute"
	"github.com/light-bringer/pav-service/internal/models/m_catalog"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
	"github.com/light-bringer/pav-service/internal/pkg/query"
)

// AttributeRepo implements AttributeRepository for Spanner.
type AttributeRepo struct {
	model *m_attribute.Model
}

var _ contracts.AttributeRepository = (*AttributeRepo)(nil)

// NewAttributeRepo creates a new AttributeRepo.
func NewAttributeRepo() *AttributeRepo {
	return &AttributeRepo{model: m_attribute.NewModel()}
}

func (r *AttributeRepo) list(ctx context.Context, tx committer.Tx, where string, params map[string]interface{}) ([]*domain.Attribute, error) {
	stmt := r.model.Select(where, params)
	stmt.SQL += " ORDER BY a." + m_attribute.ID
	rows, err := queryAll[m_attribute.Data](ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to read attributes: %w", err)
	}
	out := make([]*domain.Attribute, 0, len(rows))
	for _, d := range rows {
		out = append(out, attributeToDomain(d))
	}
	return out, nil
}

// GetByID retrieves an attribute by ID.
func (r *AttributeRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Attribute, error) {
	attrs, err := r.list(ctx, tx, "a."+m_attribute.ID+" = @id", map[string]interface{}{"id": id})
	if err != nil {
		return nil, err
	}
	if len(attrs) == 0 {
		return nil, domain.ErrAttributeNotFound
	}
	return attrs[0], nil
}

// ListByIDs returns the attributes that exist among ids.
func (r *AttributeRepo) ListByIDs(ctx context.Context, tx committer.Tx, ids []string) ([]*domain.Attribute, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, tx, "a."+m_attribute.ID+" IN UNNEST(@ids)", map[string]interface{}{"ids": ids})
}

// ListByTab returns the attributes of a tab. An empty tabID selects
// attributes without a tab.
func (r *AttributeRepo) ListByTab(ctx context.Context, tx committer.Tx, tabID string) ([]*domain.Attribute, error) {
	col := "a." + m_attribute.AttributeTabID
	if tabID == "" {
		return r.list(ctx, tx, "("+col+" IS NULL OR "+col+" = '')", nil)
	}
	return r.list(ctx, tx, col+" = @tab", map[string]interface{}{"tab": tabID})
}

func attributeToDomain(d *m_attribute.Data) *domain.Attribute {
	a := &domain.Attribute{
		ID:                            d.ID,
		Name:                          d.Name,
		Code:                          d.Code.StringVal,
		Type:                          domain.AttributeType(d.Type),
		IsMultilang:                   d.IsMultilang,
		Unique:                        d.Unique,
		IsRequired:                    d.IsRequired,
		Min:                           floatPtr(d.Min),
		Max:                           floatPtr(d.Max),
		MaxLength:                     intPtr(d.MaxLength),
		CountBytesInsteadOfCharacters: d.CountBytesInsteadOfCharacters,
		Pattern:                       d.Pattern.StringVal,
		MeasureID:                     d.MeasureID.StringVal,
		DefaultUnit:                   d.DefaultUnit.StringVal,
		AmountOfDigitsAfterComma:      intPtr(d.AmountOfDigitsAfterComma),
		ExtensibleEnumID:              d.ExtensibleEnumID.StringVal,
		AttributeGroupID:              d.AttributeGroupID.StringVal,
		AttributeGroupName:            d.AttributeGroupName.StringVal,
		AttributeGroupSortOrder:       intPtr(d.AttributeGroupSortOrder),
		SortOrderInAttributeGroup:     intPtr(d.SortOrderInAttributeGroup),
		SortOrderInProduct:            intPtr(d.SortOrderInProduct),
		AttributeTabID:                d.AttributeTabID.StringVal,
		DefaultScope:                  domain.Scope(d.DefaultScope.StringVal),
		DefaultChannelID:              d.DefaultChannelID.StringVal,
		ChildAttributeIDs:             d.ChildAttributeIDs,
	}
	if names, ok := d.Names.Value.(map[string]interface{}); d.Names.Valid && ok {
		a.Names = make(map[string]string, len(names))
		for locale, v := range names {
			if s, ok := v.(string); ok {
				a.Names[locale] = s
			}
		}
	}
	return a
}

// ClassificationAttributeRepo implements ClassificationAttributeRepository
// for Spanner.
type ClassificationAttributeRepo struct{}

var _ contracts.ClassificationAttributeRepository = ClassificationAttributeRepo{}

// ListByClassification returns the overrides of a classification.
func (ClassificationAttributeRepo) ListByClassification(ctx context.Context, tx committer.Tx, classificationID string) ([]*domain.ClassificationAttribute, error) {
	stmt := query.From(m_catalog.ClassificationAttributeTable).
		Select(m_catalog.ClassificationAttributeColumns()...).
		Where(query.Eq(m_catalog.CAClassificationID, classificationID)).
		OrderBy(m_catalog.CAID, query.Asc).
		Build()
	rows, err := queryAll[m_catalog.ClassificationAttribute](ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to read classification attributes: %w", err)
	}
	out := make([]*domain.ClassificationAttribute, 0, len(rows))
	for _, d := range rows {
		out = append(out, &domain.ClassificationAttribute{
			ID:                            d.ID,
			ClassificationID:              d.ClassificationID,
			AttributeID:                   d.AttributeID,
			Scope:                         domain.Scope(d.Scope),
			ChannelID:                     d.ChannelID,
			Language:                      d.Language,
			IsRequired:                    d.IsRequired,
			MaxLength:                     intPtr(d.MaxLength),
			CountBytesInsteadOfCharacters: d.CountBytesInsteadOfCharacters,
			Min:                           floatPtr(d.Min),
			Max:                           floatPtr(d.Max),
		})
	}
	return out, nil
}

// DeleteByAttribute removes every override of attributeID.
func (ClassificationAttributeRepo) DeleteByAttribute(ctx context.Context, tx committer.Tx, attributeID string) (int64, error) {
	return exec(ctx, tx, deleteWhere(m_catalog.ClassificationAttributeTable, m_catalog.CAAttributeID, attributeID))
}

// UnitRepo implements UnitRepository for Spanner.
type UnitRepo struct{}

var _ contracts.UnitRepository = UnitRepo{}

// Exists reports whether unitID is a unit of measureID.
func (UnitRepo) Exists(ctx context.Context, tx committer.Tx, unitID, measureID string) (bool, error) {
	stmt := query.From(m_catalog.UnitTable).
		Select(m_catalog.UnitID).
		Where(query.Eq(m_catalog.UnitID, unitID)).
		Where(query.Eq(m_catalog.UnitMeasureID, measureID)).
		Limit(1).
		Build()
	ids, err := queryStrings(ctx, tx, stmt)
	if err != nil {
		return false, fmt.Errorf("failed to read unit: %w", err)
	}
	return len(ids) > 0, nil
}

// EnumOptionRepo implements EnumOptionRepository for Spanner.
type EnumOptionRepo struct{}

var _ contracts.EnumOptionRepository = EnumOptionRepo{}

// ExistingIDs returns the subset of ids that are options of enumID, in the
// order of ids.
func (EnumOptionRepo) ExistingIDs(ctx context.Context, tx committer.Tx, enumID string, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	stmt := query.From(m_catalog.EnumOptionTable).
		Select(m_catalog.EnumOptionID).
		Where(query.Eq(m_catalog.EnumOptionEnumID, enumID)).
		Where(query.In(m_catalog.EnumOptionID, ids)).
		Build()
	found, err := queryStrings(ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to read enum options: %w", err)
	}
	known := make(map[string]bool, len(found))
	for _, id := range found {
		known[id] = true
	}
	var out []string
	for _, id := range ids {
		if known[id] {
			out = append(out, id)
		}
	}
	return out, nil
}

// ChannelRepo implements ChannelRepository for Spanner.
type ChannelRepo struct{}

var _ contracts.ChannelRepository = ChannelRepo{}

// GetByID retrieves a channel by ID.
func (r ChannelRepo) GetByID(ctx context.Context, tx committer.Tx, id string) (*domain.Channel, error) {
	channels, err := r.ListByIDs(ctx, tx, []string{id})
	if err != nil {
		return nil, err
	}
	if len(channels) == 0 {
		return nil, domain.ErrChannelNotFound
	}
	return channels[0], nil
}

// ListByIDs returns the channels that exist among ids, in the order of ids.
func (ChannelRepo) ListByIDs(ctx context.Context, tx committer.Tx, ids []string) ([]*domain.Channel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	stmt := query.From(m_catalog.ChannelTable).
		Select(m_catalog.ChannelColumns()...).
		Where(query.In(m_catalog.ChannelID, ids)).
		Build()
	rows, err := queryAll[m_catalog.Channel](ctx, tx, stmt)
	if err != nil {
		return nil, fmt.Errorf("failed to read channels: %w", err)
	}
	byID := make(map[string]*m_catalog.Channel, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	var out []*domain.Channel
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, &domain.Channel{ID: c.ID, Name: c.Name, Code: c.Code.StringVal, Locales: c.Locales})
		}
	}
	return out, nil
}

func deleteWhere(table, column, value string) spanner.Statement {
	return spanner.Statement{
		SQL:    "DELETE FROM " + table + " WHERE " + column + " = @value",
		Params: map[string]interface{}{"value": value},
	}
}
