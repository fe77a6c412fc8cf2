package m_value

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents a row of the product_attribute_values table.
type Data struct {
	ID          string             `spanner:"id"`
	ProductID   string             `spanner:"product_id"`
	AttributeID string             `spanner:"attribute_id"`
	Scope       string             `spanner:"scope"`
	ChannelID   string             `spanner:"channel_id"`
	Language    string             `spanner:"language"`
	LiveKey     spanner.NullString `spanner:"live_key"`

	IsVariantSpecificAttribute bool `spanner:"is_variant_specific_attribute"`

	AttributeType  string              `spanner:"attribute_type"`
	VarcharValue   spanner.NullString  `spanner:"varchar_value"`
	TextValue      spanner.NullString  `spanner:"text_value"`
	BoolValue      bool                `spanner:"bool_value"`
	IntValue       spanner.NullInt64   `spanner:"int_value"`
	IntValue1      spanner.NullInt64   `spanner:"int_value1"`
	FloatValue     spanner.NullFloat64 `spanner:"float_value"`
	FloatValue1    spanner.NullFloat64 `spanner:"float_value1"`
	DateValue      spanner.NullDate    `spanner:"date_value"`
	DatetimeValue  spanner.NullTime    `spanner:"datetime_value"`
	ReferenceValue spanner.NullString  `spanner:"reference_value"`

	IsRequired                    bool                `spanner:"is_required"`
	MaxLength                     spanner.NullInt64   `spanner:"max_length"`
	Min                           spanner.NullFloat64 `spanner:"min"`
	Max                           spanner.NullFloat64 `spanner:"max"`
	CountBytesInsteadOfCharacters bool                `spanner:"count_bytes_instead_of_characters"`
	AmountOfDigitsAfterComma      spanner.NullInt64   `spanner:"amount_of_digits_after_comma"`

	OwnerUserID    string   `spanner:"owner_user_id"`
	AssignedUserID string   `spanner:"assigned_user_id"`
	TeamsIDs       []string `spanner:"teams_ids"`

	Deleted      bool      `spanner:"deleted"`
	CreatedAt    time.Time `spanner:"created_at"`
	ModifiedAt   time.Time `spanner:"modified_at"`
	CreatedByID  string    `spanner:"created_by_id"`
	ModifiedByID string    `spanner:"modified_by_id"`
}
