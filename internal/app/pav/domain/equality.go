package domain

import (
	"encoding/json"
	"math"
)

// Slot identifies one typed value column of a Value.
type Slot int

const (
	SlotVarchar Slot = iota
	SlotText
	SlotBool
	SlotInt
	SlotInt1
	SlotFloat
	SlotFloat1
	SlotDate
	SlotDatetime
	SlotReference
)

// FloatEpsilon is the tolerance used when comparing float slots.
const FloatEpsilon = 1e-8

// ComparedSlots returns the slots that make up the effective value of type t.
// Both value equality and the attribute-level unique check compare exactly
// these slots.
func ComparedSlots(t AttributeType) []Slot {
	switch t {
	case TypeArray, TypeExtensibleMultiEnum:
		return []Slot{SlotText}
	case TypeText, TypeWysiwyg:
		return []Slot{SlotText}
	case TypeBool:
		return []Slot{SlotBool}
	case TypeCurrency:
		return []Slot{SlotFloat, SlotVarchar}
	case TypeInt:
		return []Slot{SlotInt, SlotReference}
	case TypeRangeInt:
		return []Slot{SlotInt, SlotInt1, SlotReference}
	case TypeFloat:
		return []Slot{SlotFloat, SlotReference}
	case TypeRangeFloat:
		return []Slot{SlotFloat, SlotFloat1, SlotReference}
	case TypeDate:
		return []Slot{SlotDate}
	case TypeDatetime:
		return []Slot{SlotDatetime}
	case TypeAsset, TypeImage, TypeLink, TypeExtensibleEnum:
		return []Slot{SlotReference}
	case TypeVarchar:
		return []Slot{SlotVarchar, SlotReference}
	default:
		return []Slot{SlotVarchar}
	}
}

// ValuesEqual reports whether a and b hold the same effective value.
//
// The comparison is driven by the attribute type. Values of two different
// known types are never equal; when only one side carries a type, that type
// is used for both.
func ValuesEqual(a, b *Value) bool {
	if a == nil || b == nil {
		return a == b
	}

	t := a.AttributeType
	if t != b.AttributeType {
		switch {
		case t == "":
			t = b.AttributeType
		case b.AttributeType == "":
		default:
			return false
		}
	}

	for _, slot := range ComparedSlots(t) {
		if !SlotEqual(t, slot, a, b) {
			return false
		}
	}
	return true
}

// SlotEqual compares one slot of a and b under type t.
func SlotEqual(t AttributeType, slot Slot, a, b *Value) bool {
	switch slot {
	case SlotVarchar:
		return ptrEqual(a.VarcharValue, b.VarcharValue)
	case SlotText:
		if t.IsMulti() {
			return NormalizeJSONArray(a.TextValue) == NormalizeJSONArray(b.TextValue)
		}
		return ptrEqual(a.TextValue, b.TextValue)
	case SlotBool:
		return a.BoolValue == b.BoolValue
	case SlotInt:
		return ptrEqual(a.IntValue, b.IntValue)
	case SlotInt1:
		return ptrEqual(a.IntValue1, b.IntValue1)
	case SlotFloat:
		return FloatsEqual(a.FloatValue, b.FloatValue)
	case SlotFloat1:
		return FloatsEqual(a.FloatValue1, b.FloatValue1)
	case SlotDate:
		return ptrEqual(a.DateValue, b.DateValue)
	case SlotDatetime:
		if a.DatetimeValue == nil || b.DatetimeValue == nil {
			return a.DatetimeValue == nil && b.DatetimeValue == nil
		}
		return a.DatetimeValue.Equal(*b.DatetimeValue)
	case SlotReference:
		return ptrEqual(a.ReferenceValue, b.ReferenceValue)
	default:
		return false
	}
}

// FloatsEqual compares two optional floats with FloatEpsilon tolerance.
func FloatsEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return math.Abs(*a-*b) < FloatEpsilon
}

// NormalizeJSONArray decodes s as a JSON array and re-encodes it. Missing or
// undecodable input normalizes to the empty array.
func NormalizeJSONArray(s *string) string {
	items := DecodeJSONArray(s)
	out, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(out)
}

// DecodeJSONArray decodes s as a JSON array, returning an empty slice for
// missing or undecodable input.
func DecodeJSONArray(s *string) []any {
	if s == nil {
		return []any{}
	}
	var items []any
	if err := json.Unmarshal([]byte(*s), &items); err != nil || items == nil {
		return []any{}
	}
	return items
}

func ptrEqual[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
