package domain

// AttributeType is the closed set of value kinds an attribute can hold.
type AttributeType string

const (
	TypeVarchar             AttributeType = "varchar"
	TypeText                AttributeType = "text"
	TypeWysiwyg             AttributeType = "wysiwyg"
	TypeInt                 AttributeType = "int"
	TypeFloat               AttributeType = "float"
	TypeRangeInt            AttributeType = "rangeInt"
	TypeRangeFloat          AttributeType = "rangeFloat"
	TypeBool                AttributeType = "bool"
	TypeDate                AttributeType = "date"
	TypeDatetime            AttributeType = "datetime"
	TypeCurrency            AttributeType = "currency"
	TypeAsset               AttributeType = "asset"
	TypeImage               AttributeType = "image"
	TypeLink                AttributeType = "link"
	TypeExtensibleEnum      AttributeType = "extensibleEnum"
	TypeExtensibleMultiEnum AttributeType = "extensibleMultiEnum"
	TypeArray               AttributeType = "array"
)

// AttributeTypes lists every known attribute type.
var AttributeTypes = []AttributeType{
	TypeVarchar, TypeText, TypeWysiwyg, TypeInt, TypeFloat, TypeRangeInt, TypeRangeFloat,
	TypeBool, TypeDate, TypeDatetime, TypeCurrency, TypeAsset, TypeImage, TypeLink,
	TypeExtensibleEnum, TypeExtensibleMultiEnum, TypeArray,
}

// Valid reports whether t is one of the known types.
func (t AttributeType) Valid() bool {
	for _, known := range AttributeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsMulti reports whether values of t are JSON arrays stored in the text slot.
func (t AttributeType) IsMulti() bool {
	return t == TypeArray || t == TypeExtensibleMultiEnum
}

// HasUnit reports whether a reference value of t identifies a measure unit.
func (t AttributeType) HasUnit() bool {
	switch t {
	case TypeInt, TypeFloat, TypeRangeInt, TypeRangeFloat, TypeVarchar:
		return true
	default:
		return false
	}
}

// IsTextual reports whether t is subject to max length checks.
func (t AttributeType) IsTextual() bool {
	switch t {
	case TypeVarchar, TypeText, TypeWysiwyg:
		return true
	default:
		return false
	}
}

// Scope selects whether a value applies to all channels or to one.
type Scope string

const (
	ScopeGlobal  Scope = "Global"
	ScopeChannel Scope = "Channel"
)

// LanguageMain is the language of values that are not localized.
const LanguageMain = "main"

// Attribute defines a field of a product. Attributes are owned by the catalog
// configuration and never written here.
type Attribute struct {
	ID          string
	Name        string
	Code        string
	Type        AttributeType
	IsMultilang bool

	// Localized names keyed by locale, e.g. "de_DE".
	Names map[string]string

	// Constraints
	Unique                        bool
	IsRequired                    bool
	Min                           *float64
	Max                           *float64
	MaxLength                     *int64
	CountBytesInsteadOfCharacters bool
	Pattern                       string
	MeasureID                     string
	DefaultUnit                   string
	AmountOfDigitsAfterComma      *int64
	ExtensibleEnumID              string

	// Grouping and ordering
	AttributeGroupID          string
	AttributeGroupName        string
	AttributeGroupSortOrder   *int64
	SortOrderInAttributeGroup *int64
	SortOrderInProduct        *int64
	AttributeTabID            string

	// Defaults for new values
	DefaultScope     Scope
	DefaultChannelID string

	// Attributes whose values are created alongside a value of this one.
	ChildAttributeIDs []string
}

// NameFor returns the attribute label for a locale, falling back to Name.
func (a *Attribute) NameFor(locale string) string {
	if name := a.Names[locale]; name != "" {
		return name
	}
	if a.Name != "" {
		return a.Name
	}
	return a.ID
}

// ClassificationAttribute overrides attribute constraints for products of a
// classification.
type ClassificationAttribute struct {
	ID                            string
	ClassificationID              string
	AttributeID                   string
	Scope                         Scope
	ChannelID                     string
	Language                      string
	IsRequired                    bool
	MaxLength                     *int64
	CountBytesInsteadOfCharacters bool
	Min                           *float64
	Max                           *float64
}

// Matches reports whether the override applies to v.
func (ca *ClassificationAttribute) Matches(v *Value) bool {
	if ca.AttributeID != v.AttributeID || ca.Scope != v.Scope || ca.Language != v.Language {
		return false
	}
	if v.Scope == ScopeChannel && ca.ChannelID != v.ChannelID {
		return false
	}
	return true
}

// Unit is a measure unit referenced by numeric and varchar values.
type Unit struct {
	ID        string
	MeasureID string
	Name      string
}

// EnumOption is an option of an extensible enum.
type EnumOption struct {
	ID               string
	ExtensibleEnumID string
	Name             string
}

// Channel is a sales channel.
type Channel struct {
	ID      string
	Name    string
	Code    string
	Locales []string
}
