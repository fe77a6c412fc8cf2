package m_value

// Field name constants for the product_attribute_values table.
const (
	TableName = "product_attribute_values"

	ID          = "id"
	ProductID   = "product_id"
	AttributeID = "attribute_id"
	Scope       = "scope"
	ChannelID   = "channel_id"
	Language    = "language"

	// LiveKey holds the composite key of live rows and is NULL once the row
	// is deleted. A unique null-filtered index on it enforces one live row
	// per key.
	LiveKey = "live_key"

	IsVariantSpecificAttribute = "is_variant_specific_attribute"

	AttributeType  = "attribute_type"
	VarcharValue   = "varchar_value"
	TextValue      = "text_value"
	BoolValue      = "bool_value"
	IntValue       = "int_value"
	IntValue1      = "int_value1"
	FloatValue     = "float_value"
	FloatValue1    = "float_value1"
	DateValue      = "date_value"
	DatetimeValue  = "datetime_value"
	ReferenceValue = "reference_value"

	IsRequired                    = "is_required"
	MaxLength                     = "max_length"
	Min                           = "min"
	Max                           = "max"
	CountBytesInsteadOfCharacters = "count_bytes_instead_of_characters"
	AmountOfDigitsAfterComma      = "amount_of_digits_after_comma"

	OwnerUserID    = "owner_user_id"
	AssignedUserID = "assigned_user_id"
	TeamsIDs       = "teams_ids"

	Deleted      = "deleted"
	CreatedAt    = "created_at"
	ModifiedAt   = "modified_at"
	CreatedByID  = "created_by_id"
	ModifiedByID = "modified_by_id"

	// LiveKeyIndex is the unique index over LiveKey.
	LiveKeyIndex = "product_attribute_values_live_key_idx"
)
