package domain

import (
	"time"

	"cloud.google.com/go/civil"
)

// Value is one scoped, localized value of one attribute on one product.
//
// The typed slots hold the value; which slots are meaningful is decided by
// AttributeType. Constraint fields are denormalized from the attribute (or
// its classification override) every time the value is saved.
type Value struct {
	ID          string
	ProductID   string
	AttributeID string
	Scope       Scope
	ChannelID   string
	Language    string

	IsVariantSpecificAttribute bool

	AttributeType  AttributeType
	VarcharValue   *string
	TextValue      *string
	BoolValue      bool
	IntValue       *int64
	IntValue1      *int64
	FloatValue     *float64
	FloatValue1    *float64
	DateValue      *civil.Date
	DatetimeValue  *time.Time
	ReferenceValue *string

	IsRequired                    bool
	MaxLength                     *int64
	Min                           *float64
	Max                           *float64
	CountBytesInsteadOfCharacters bool
	AmountOfDigitsAfterComma      *int64

	OwnerUserID    string
	AssignedUserID string
	TeamsIDs       []string

	Deleted      bool
	CreatedAt    time.Time
	ModifiedAt   time.Time
	CreatedByID  string
	ModifiedByID string
}

// Normalize applies the key normalization used by the uniqueness invariant:
// Global values carry no channel and a missing language means main.
func (v *Value) Normalize() {
	if v.Scope == "" {
		v.Scope = ScopeGlobal
	}
	if v.Scope == ScopeGlobal {
		v.ChannelID = ""
	}
	if v.Language == "" {
		v.Language = LanguageMain
	}
}

// Clone returns a deep copy of v.
func (v *Value) Clone() *Value {
	if v == nil {
		return nil
	}
	c := *v
	c.VarcharValue = clonePtr(v.VarcharValue)
	c.TextValue = clonePtr(v.TextValue)
	c.IntValue = clonePtr(v.IntValue)
	c.IntValue1 = clonePtr(v.IntValue1)
	c.FloatValue = clonePtr(v.FloatValue)
	c.FloatValue1 = clonePtr(v.FloatValue1)
	c.DateValue = clonePtr(v.DateValue)
	c.DatetimeValue = clonePtr(v.DatetimeValue)
	c.ReferenceValue = clonePtr(v.ReferenceValue)
	c.MaxLength = clonePtr(v.MaxLength)
	c.Min = clonePtr(v.Min)
	c.Max = clonePtr(v.Max)
	c.AmountOfDigitsAfterComma = clonePtr(v.AmountOfDigitsAfterComma)
	if v.TeamsIDs != nil {
		c.TeamsIDs = append([]string(nil), v.TeamsIDs...)
	}
	return &c
}

// Clear resets every typed slot. The bool slot becomes false.
func (v *Value) Clear() {
	v.VarcharValue = nil
	v.TextValue = nil
	v.BoolValue = false
	v.IntValue = nil
	v.IntValue1 = nil
	v.FloatValue = nil
	v.FloatValue1 = nil
	v.DateValue = nil
	v.DatetimeValue = nil
	v.ReferenceValue = nil
}

// SameKey reports whether a and b share the composite key
// (productId, attributeId, scope, channelId, language).
func SameKey(a, b *Value) bool {
	return a.ProductID == b.ProductID &&
		a.AttributeID == b.AttributeID &&
		a.Scope == b.Scope &&
		a.ChannelID == b.ChannelID &&
		a.Language == b.Language
}

// Counterpart reports whether candidate, a value of another product,
// corresponds to v: same attribute, language, scope and variant flag, and the
// same channel when channel scoped.
func Counterpart(v, candidate *Value) bool {
	if candidate.AttributeID != v.AttributeID ||
		candidate.Language != v.Language ||
		candidate.Scope != v.Scope ||
		candidate.IsVariantSpecificAttribute != v.IsVariantSpecificAttribute {
		return false
	}
	if v.Scope == ScopeChannel && candidate.ChannelID != v.ChannelID {
		return false
	}
	return true
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
