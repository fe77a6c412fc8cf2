package m_value

import (
	"strings"
	"time"

	"cloud.google.com/go/spanner"
)

// Model provides type-safe statements for the product_attribute_values table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// Columns returns every column in Data order.
func (m *Model) Columns() []string {
	return []string{
		ID, ProductID, AttributeID, Scope, ChannelID, Language, LiveKey,
		IsVariantSpecificAttribute,
		AttributeType, VarcharValue, TextValue, BoolValue, IntValue, IntValue1,
		FloatValue, FloatValue1, DateValue, DatetimeValue, ReferenceValue,
		IsRequired, MaxLength, Min, Max, CountBytesInsteadOfCharacters, AmountOfDigitsAfterComma,
		OwnerUserID, AssignedUserID, TeamsIDs,
		Deleted, CreatedAt, ModifiedAt, CreatedByID, ModifiedByID,
	}
}

func (m *Model) params(d *Data) map[string]interface{} {
	return map[string]interface{}{
		ID:                            d.ID,
		ProductID:                     d.ProductID,
		AttributeID:                   d.AttributeID,
		Scope:                         d.Scope,
		ChannelID:                     d.ChannelID,
		Language:                      d.Language,
		LiveKey:                       d.LiveKey,
		IsVariantSpecificAttribute:    d.IsVariantSpecificAttribute,
		AttributeType:                 d.AttributeType,
		VarcharValue:                  d.VarcharValue,
		TextValue:                     d.TextValue,
		BoolValue:                     d.BoolValue,
		IntValue:                      d.IntValue,
		IntValue1:                     d.IntValue1,
		FloatValue:                    d.FloatValue,
		FloatValue1:                   d.FloatValue1,
		DateValue:                     d.DateValue,
		DatetimeValue:                 d.DatetimeValue,
		ReferenceValue:                d.ReferenceValue,
		IsRequired:                    d.IsRequired,
		MaxLength:                     d.MaxLength,
		Min:                           d.Min,
		Max:                           d.Max,
		CountBytesInsteadOfCharacters: d.CountBytesInsteadOfCharacters,
		AmountOfDigitsAfterComma:      d.AmountOfDigitsAfterComma,
		OwnerUserID:                   d.OwnerUserID,
		AssignedUserID:                d.AssignedUserID,
		TeamsIDs:                      d.TeamsIDs,
		Deleted:                       d.Deleted,
		CreatedAt:                     d.CreatedAt,
		ModifiedAt:                    d.ModifiedAt,
		CreatedByID:                   d.CreatedByID,
		ModifiedByID:                  d.ModifiedByID,
	}
}

// InsertStmt creates a DML statement inserting a row. DML keeps the row
// visible to later reads of the same transaction.
func (m *Model) InsertStmt(d *Data) spanner.Statement {
	cols := m.Columns()
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = "@" + c
	}
	return spanner.Statement{
		SQL:    "INSERT INTO " + TableName + " (" + strings.Join(cols, ", ") + ") VALUES (" + strings.Join(names, ", ") + ")",
		Params: m.params(d),
	}
}

// UpdateStmt creates a DML statement rewriting every column of a row but
// its id and creation stamps.
func (m *Model) UpdateStmt(d *Data) spanner.Statement {
	var sets []string
	for _, c := range m.Columns() {
		switch c {
		case ID, CreatedAt, CreatedByID:
			continue
		}
		sets = append(sets, c+" = @"+c)
	}
	return spanner.Statement{
		SQL:    "UPDATE " + TableName + " SET " + strings.Join(sets, ", ") + " WHERE " + ID + " = @" + ID,
		Params: m.params(d),
	}
}

// SoftDeleteStmt marks a live row deleted and frees its key.
func (m *Model) SoftDeleteStmt(id string, at time.Time, actorID string) spanner.Statement {
	return spanner.Statement{
		SQL: "UPDATE " + TableName + " SET " +
			Deleted + " = TRUE, " + LiveKey + " = NULL, " +
			ModifiedAt + " = @at, " + ModifiedByID + " = @actor " +
			"WHERE " + ID + " = @id AND " + Deleted + " = FALSE",
		Params: map[string]interface{}{"id": id, "at": at, "actor": actorID},
	}
}

// ClearStmt resets every typed slot of a row.
func (m *Model) ClearStmt(id string) spanner.Statement {
	return spanner.Statement{
		SQL: "UPDATE " + TableName + " SET " +
			VarcharValue + " = NULL, " + TextValue + " = NULL, " + BoolValue + " = FALSE, " +
			IntValue + " = NULL, " + IntValue1 + " = NULL, " +
			FloatValue + " = NULL, " + FloatValue1 + " = NULL, " +
			DateValue + " = NULL, " + DatetimeValue + " = NULL, " + ReferenceValue + " = NULL " +
			"WHERE " + ID + " = @id",
		Params: map[string]interface{}{"id": id},
	}
}

// DeleteByAttributeStmt removes every row of an attribute.
func (m *Model) DeleteByAttributeStmt(attributeID string) spanner.Statement {
	return spanner.Statement{
		SQL:    "DELETE FROM " + TableName + " WHERE " + AttributeID + " = @attribute",
		Params: map[string]interface{}{"attribute": attributeID},
	}
}
