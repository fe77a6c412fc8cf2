// Package m_catalog holds the row models of the catalog tables read by the
// value pipeline.
package m_catalog

import (
	"cloud.google.com/go/spanner"
)

// Field name constants for the classification_attributes table.
const (
	ClassificationAttributeTable = "classification_attributes"

	CAID                            = "id"
	CAClassificationID              = "classification_id"
	CAAttributeID                   = "attribute_id"
	CAScope                         = "scope"
	CAChannelID                     = "channel_id"
	CALanguage                      = "language"
	CAIsRequired                    = "is_required"
	CAMaxLength                     = "max_length"
	CACountBytesInsteadOfCharacters = "count_bytes_instead_of_characters"
	CAMin                           = "min"
	CAMax                           = "max"
)

// ClassificationAttribute represents a classification level override.
type ClassificationAttribute struct {
	ID                            string              `spanner:"id"`
	ClassificationID              string              `spanner:"classification_id"`
	AttributeID                   string              `spanner:"attribute_id"`
	Scope                         string              `spanner:"scope"`
	ChannelID                     string              `spanner:"channel_id"`
	Language                      string              `spanner:"language"`
	IsRequired                    bool                `spanner:"is_required"`
	MaxLength                     spanner.NullInt64   `spanner:"max_length"`
	CountBytesInsteadOfCharacters bool                `spanner:"count_bytes_instead_of_characters"`
	Min                           spanner.NullFloat64 `spanner:"min"`
	Max                           spanner.NullFloat64 `spanner:"max"`
}

// ClassificationAttributeColumns returns the columns read into
// ClassificationAttribute.
func ClassificationAttributeColumns() []string {
	return []string{
		CAID, CAClassificationID, CAAttributeID, CAScope, CAChannelID, CALanguage,
		CAIsRequired, CAMaxLength, CACountBytesInsteadOfCharacters, CAMin, CAMax,
	}
}

// Field name constants for the units table.
const (
	UnitTable = "units"

	UnitID        = "id"
	UnitMeasureID = "measure_id"
)

// Field name constants for the extensible_enum_options table.
const (
	EnumOptionTable = "extensible_enum_options"

	EnumOptionID     = "id"
	EnumOptionEnumID = "extensible_enum_id"
)

// Field name constants for the channels table.
const (
	ChannelTable = "channels"

	ChannelID      = "id"
	ChannelName    = "name"
	ChannelCode    = "code"
	ChannelLocales = "locales"
)

// Channel represents a sales channel.
type Channel struct {
	ID      string             `spanner:"id"`
	Name    string             `spanner:"name"`
	Code    spanner.NullString `spanner:"code"`
	Locales []string           `spanner:"locales"`
}

// ChannelColumns returns the columns read into Channel.
func ChannelColumns() []string {
	return []string{ChannelID, ChannelName, ChannelCode, ChannelLocales}
}

// Field name constants for the files table.
const (
	FileTable = "files"

	FileID    = "id"
	FileInTmp = "in_tmp"
	FilePath  = "path"
)
