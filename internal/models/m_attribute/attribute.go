package m_attribute

import (
	"strings"

	"cloud.google.com/go/spanner"
)

// Field name constants for the attributes table.
const (
	TableName = "attributes"

	ID                            = "id"
	Name                          = "name"
	Code                          = "code"
	Type                          = "type"
	IsMultilang                   = "is_multilang"
	Names                         = "names"
	Unique                        = "is_unique"
	IsRequired                    = "is_required"
	Min                           = "min"
	Max                           = "max"
	MaxLength                     = "max_length"
	CountBytesInsteadOfCharacters = "count_bytes_instead_of_characters"
	Pattern                       = "pattern"
	MeasureID                     = "measure_id"
	DefaultUnit                   = "default_unit"
	AmountOfDigitsAfterComma      = "amount_of_digits_after_comma"
	ExtensibleEnumID              = "extensible_enum_id"
	AttributeGroupID              = "attribute_group_id"
	SortOrderInAttributeGroup     = "sort_order_in_attribute_group"
	SortOrderInProduct            = "sort_order_in_product"
	AttributeTabID                = "attribute_tab_id"
	DefaultScope                  = "default_scope"
	DefaultChannelID              = "default_channel_id"
	ChildAttributeIDs             = "child_attribute_ids"
)

// Field name constants for the attribute_groups table.
const (
	GroupTableName = "attribute_groups"

	GroupID        = "id"
	GroupName      = "name"
	GroupSortOrder = "sort_order"
)

// Data represents an attribute joined with its group.
type Data struct {
	ID                            string              `spanner:"id"`
	Name                          string              `spanner:"name"`
	Code                          spanner.NullString  `spanner:"code"`
	Type                          string              `spanner:"type"`
	IsMultilang                   bool                `spanner:"is_multilang"`
	Names                         spanner.NullJSON    `spanner:"names"`
	Unique                        bool                `spanner:"is_unique"`
	IsRequired                    bool                `spanner:"is_required"`
	Min                           spanner.NullFloat64 `spanner:"min"`
	Max                           spanner.NullFloat64 `spanner:"max"`
	MaxLength                     spanner.NullInt64   `spanner:"max_length"`
	CountBytesInsteadOfCharacters bool                `spanner:"count_bytes_instead_of_characters"`
	Pattern                       spanner.NullString  `spanner:"pattern"`
	MeasureID                     spanner.NullString  `spanner:"measure_id"`
	DefaultUnit                   spanner.NullString  `spanner:"default_unit"`
	AmountOfDigitsAfterComma      spanner.NullInt64   `spanner:"amount_of_digits_after_comma"`
	ExtensibleEnumID              spanner.NullString  `spanner:"extensible_enum_id"`
	AttributeGroupID              spanner.NullString  `spanner:"attribute_group_id"`
	AttributeGroupName            spanner.NullString  `spanner:"attribute_group_name"`
	AttributeGroupSortOrder       spanner.NullInt64   `spanner:"attribute_group_sort_order"`
	SortOrderInAttributeGroup     spanner.NullInt64   `spanner:"sort_order_in_attribute_group"`
	SortOrderInProduct            spanner.NullInt64   `spanner:"sort_order_in_product"`
	AttributeTabID                spanner.NullString  `spanner:"attribute_tab_id"`
	DefaultScope                  spanner.NullString  `spanner:"default_scope"`
	DefaultChannelID              spanner.NullString  `spanner:"default_channel_id"`
	ChildAttributeIDs             []string            `spanner:"child_attribute_ids"`
}

// Model builds read statements for attributes.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Select returns a statement reading attributes joined with their group,
// filtered by where. where refers to the attributes table as a.
func (m *Model) Select(where string, params map[string]interface{}) spanner.Statement {
	cols := []string{
		ID, Name, Code, Type, IsMultilang, Names, Unique, IsRequired, Min, Max, MaxLength,
		CountBytesInsteadOfCharacters, Pattern, MeasureID, DefaultUnit, AmountOfDigitsAfterComma,
		ExtensibleEnumID, AttributeGroupID, SortOrderInAttributeGroup, SortOrderInProduct,
		AttributeTabID, DefaultScope, DefaultChannelID, ChildAttributeIDs,
	}
	selected := make([]string, 0, len(cols)+2)
	for _, c := range cols {
		selected = append(selected, "a."+c)
	}
	selected = append(selected,
		"g."+GroupName+" AS attribute_group_name",
		"g."+GroupSortOrder+" AS attribute_group_sort_order",
	)

	sql := "SELECT " + strings.Join(selected, ", ") +
		" FROM " + TableName + " a LEFT JOIN " + GroupTableName + " g ON g." + GroupID + " = a." + AttributeGroupID
	if where != "" {
		sql += " WHERE " + where
	}
	return spanner.Statement{SQL: sql, Params: params}
}
