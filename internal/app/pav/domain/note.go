package domain

import (
	"reflect"
	"time"
)

// NoteTypeUpdate is the type of notes written for value changes.
const NoteTypeUpdate = "Update"

// Note is an activity stream record of a value change.
type Note struct {
	ID          string
	Type        string
	ParentType  string
	ParentID    string
	AttributeID string
	PavID       string
	Data        *NoteData
	CreatedByID string
	CreatedAt   time.Time
}

// NoteData describes which output fields of a value changed.
type NoteData struct {
	ID         string         `json:"id"`
	Locale     string         `json:"locale"`
	Fields     []string       `json:"fields"`
	Attributes NoteAttributes `json:"attributes"`
}

// NoteAttributes holds the old and new output values keyed by field.
type NoteAttributes struct {
	Was    map[string]any `json:"was"`
	Became map[string]any `json:"became"`
}

// BuildNoteData compares the value before a save with the value after it.
// before is nil for new values. Fields gated on the payload are only reported
// when in supplied them. It returns nil when nothing changed.
func BuildNoteData(before, after *Value, in *Input) *NoteData {
	if in == nil {
		return nil
	}

	var was ValueView
	if before != nil {
		was = View(before)
	}
	became := View(after)

	tracker := NewChangeTracker()
	data := &NoteData{
		ID:     after.ID,
		Locale: after.Language,
		Attributes: NoteAttributes{
			Was:    map[string]any{},
			Became: map[string]any{},
		},
	}
	if data.Locale == LanguageMain {
		data.Locale = ""
	}

	record := func(field, key string, from, to any) {
		tracker.MarkDirty(field)
		data.Attributes.Was[key] = from
		data.Attributes.Became[key] = to
	}
	unit := func() {
		if in.ValueUnitID != nil && !reflect.DeepEqual(was.ValueUnitID, became.ValueUnitID) {
			record("valueUnit", "valueUnitId", deref(was.ValueUnitID), deref(became.ValueUnitID))
		}
	}

	switch after.AttributeType {
	case TypeRangeInt, TypeRangeFloat:
		if in.ValueFrom != nil && !sameSlot(after.AttributeType, SlotFloat, SlotInt, before, after) {
			record("valueFrom", "valueFrom", was.ValueFrom, became.ValueFrom)
		}
		if in.ValueTo != nil && !sameSlot(after.AttributeType, SlotFloat1, SlotInt1, before, after) {
			record("valueTo", "valueTo", was.ValueTo, became.ValueTo)
		}
		unit()
	case TypeInt, TypeFloat:
		if in.Value != nil && !sameSlot(after.AttributeType, SlotFloat, SlotInt, before, after) {
			record("value", "value", was.Value, became.Value)
		}
		unit()
	case TypeCurrency:
		if !sameSlot(after.AttributeType, SlotFloat, SlotFloat, before, after) {
			record("value", "value", was.Value, became.Value)
		}
		if in.ValueCurrency != nil && !reflect.DeepEqual(was.ValueCurrency, became.ValueCurrency) {
			record("valueCurrency", "valueCurrency", deref(was.ValueCurrency), deref(became.ValueCurrency))
		}
	case TypeAsset, TypeImage:
		if !reflect.DeepEqual(was.ValueID, became.ValueID) {
			record("value", "valueId", deref(was.ValueID), deref(became.ValueID))
		}
	case TypeArray, TypeExtensibleMultiEnum, TypeExtensibleEnum, TypeText, TypeWysiwyg,
		TypeBool, TypeDate, TypeDatetime, TypeLink, TypeVarchar:
		if !reflect.DeepEqual(was.Value, became.Value) {
			record("value", "value", was.Value, became.Value)
		}
	default:
		if !reflect.DeepEqual(was.Value, became.Value) {
			record("value", "value", was.Value, became.Value)
		}
	}

	if !tracker.HasChanges() {
		return nil
	}
	data.Fields = tracker.DirtyFields()
	return data
}

// sameSlot compares the float or int slot of before and after depending on
// whether t is a float or an int type. A missing before never matches a set
// slot.
func sameSlot(t AttributeType, floatSlot, intSlot Slot, before, after *Value) bool {
	if before == nil {
		before = &Value{AttributeType: t}
	}
	switch t {
	case TypeFloat, TypeRangeFloat, TypeCurrency:
		return SlotEqual(t, floatSlot, before, after)
	default:
		return SlotEqual(t, intSlot, before, after)
	}
}
