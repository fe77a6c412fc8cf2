package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DatetimeLayout is the output format of datetime values.
const DatetimeLayout = time.RFC3339

// ValueView is the attribute-agnostic representation of a value's slots.
type ValueView struct {
	Value         any     `json:"value"`
	ValueFrom     any     `json:"valueFrom,omitempty"`
	ValueTo       any     `json:"valueTo,omitempty"`
	ValueUnitID   *string `json:"valueUnitId,omitempty"`
	ValueCurrency *string `json:"valueCurrency,omitempty"`
	ValueID       *string `json:"valueId,omitempty"`
}

// IsEmpty reports whether the view carries no value.
func (vv ValueView) IsEmpty() bool {
	if vv.ValueFrom != nil || vv.ValueTo != nil {
		return false
	}
	switch val := vv.Value.(type) {
	case nil:
		return true
	case string:
		return val == ""
	default:
		return false
	}
}

// View renders the slots of v in the attribute-agnostic shape.
func View(v *Value) ValueView {
	var vv ValueView
	switch v.AttributeType {
	case TypeText, TypeWysiwyg:
		vv.Value = deref(v.TextValue)
	case TypeArray, TypeExtensibleMultiEnum:
		if v.TextValue != nil {
			vv.Value = DecodeJSONArray(v.TextValue)
		}
	case TypeBool:
		vv.Value = v.BoolValue
	case TypeInt:
		vv.Value = deref(v.IntValue)
		vv.ValueUnitID = clonePtr(v.ReferenceValue)
	case TypeFloat:
		vv.Value = deref(v.FloatValue)
		vv.ValueUnitID = clonePtr(v.ReferenceValue)
	case TypeCurrency:
		vv.Value = deref(v.FloatValue)
		vv.ValueCurrency = clonePtr(v.VarcharValue)
	case TypeRangeInt:
		vv.ValueFrom = deref(v.IntValue)
		vv.ValueTo = deref(v.IntValue1)
		vv.ValueUnitID = clonePtr(v.ReferenceValue)
	case TypeRangeFloat:
		vv.ValueFrom = deref(v.FloatValue)
		vv.ValueTo = deref(v.FloatValue1)
		vv.ValueUnitID = clonePtr(v.ReferenceValue)
	case TypeDate:
		if v.DateValue != nil {
			vv.Value = v.DateValue.String()
		}
	case TypeDatetime:
		if v.DatetimeValue != nil {
			vv.Value = v.DatetimeValue.UTC().Format(DatetimeLayout)
		}
	case TypeAsset, TypeImage, TypeLink, TypeExtensibleEnum:
		vv.Value = deref(v.ReferenceValue)
		vv.ValueID = clonePtr(v.ReferenceValue)
	case TypeVarchar:
		vv.Value = deref(v.VarcharValue)
		vv.ValueUnitID = clonePtr(v.ReferenceValue)
	default:
		vv.Value = deref(v.VarcharValue)
	}
	return vv
}

// InputFromView builds an update payload carrying every value field of vv
// that is meaningful for type t.
func InputFromView(t AttributeType, vv ValueView) *Input {
	in := &Input{}
	switch t {
	case TypeRangeInt, TypeRangeFloat:
		in.ValueFrom = Raw(vv.ValueFrom)
		in.ValueTo = Raw(vv.ValueTo)
		in.ValueUnitID = Raw(vv.ValueUnitID)
	case TypeInt, TypeFloat, TypeVarchar:
		in.Value = Raw(vv.Value)
		in.ValueUnitID = Raw(vv.ValueUnitID)
	case TypeCurrency:
		in.Value = Raw(vv.Value)
		in.ValueCurrency = Raw(vv.ValueCurrency)
	case TypeAsset, TypeImage, TypeLink, TypeExtensibleEnum:
		in.ValueID = Raw(vv.ValueID)
	default:
		in.Value = Raw(vv.Value)
	}
	return in
}

// ApplyInput writes the value fields of in that were supplied into the slots
// of v that type t maps them to.
func ApplyInput(v *Value, t AttributeType, in *Input) error {
	v.AttributeType = t
	if in.IsVariantSpecificAttribute != nil {
		v.IsVariantSpecificAttribute = *in.IsVariantSpecificAttribute
	}

	var err error
	switch t {
	case TypeText, TypeWysiwyg:
		err = applyString(&v.TextValue, in.Value)
	case TypeArray, TypeExtensibleMultiEnum:
		err = applyArray(&v.TextValue, in.Value)
	case TypeBool:
		if in.Value != nil {
			v.BoolValue, err = decodeBool(in.Value)
		}
	case TypeInt:
		if err = applyInt(&v.IntValue, in.Value); err == nil {
			err = applyString(&v.ReferenceValue, in.ValueUnitID)
		}
	case TypeFloat:
		if err = applyFloat(&v.FloatValue, in.Value); err == nil {
			err = applyString(&v.ReferenceValue, in.ValueUnitID)
		}
	case TypeCurrency:
		if err = applyFloat(&v.FloatValue, in.Value); err == nil {
			err = applyString(&v.VarcharValue, in.ValueCurrency)
		}
	case TypeRangeInt:
		err = firstErr(
			applyInt(&v.IntValue, in.ValueFrom),
			applyInt(&v.IntValue1, in.ValueTo),
			applyString(&v.ReferenceValue, in.ValueUnitID),
		)
	case TypeRangeFloat:
		err = firstErr(
			applyFloat(&v.FloatValue, in.ValueFrom),
			applyFloat(&v.FloatValue1, in.ValueTo),
			applyString(&v.ReferenceValue, in.ValueUnitID),
		)
	case TypeDate:
		err = applyDate(&v.DateValue, in.Value)
	case TypeDatetime:
		err = applyDatetime(&v.DatetimeValue, in.Value)
	case TypeAsset, TypeImage, TypeLink, TypeExtensibleEnum:
		raw := in.ValueID
		if raw == nil {
			raw = in.Value
		}
		err = applyString(&v.ReferenceValue, raw)
	case TypeVarchar:
		if err = applyString(&v.VarcharValue, in.Value); err == nil {
			err = applyString(&v.ReferenceValue, in.ValueUnitID)
		}
	default:
		err = applyString(&v.VarcharValue, in.Value)
	}
	if err != nil {
		return NewValidationError(KeyInvalidValue, map[string]any{
			"type":  string(t),
			"error": err.Error(),
		})
	}
	return nil
}

// ApplyOwnership copies the owner, assignee and teams of in that were
// supplied onto v.
func ApplyOwnership(v *Value, in *Input) {
	if in.OwnerUserID != nil {
		v.OwnerUserID = *in.OwnerUserID
	}
	if in.AssignedUserID != nil {
		v.AssignedUserID = *in.AssignedUserID
	}
	if in.TeamsIDs != nil {
		v.TeamsIDs = append([]string(nil), in.TeamsIDs...)
	}
}

func applyString(dst **string, raw json.RawMessage) error {
	if raw == nil {
		return nil
	}
	if isNull(raw) {
		*dst = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return fmt.Errorf("expected a string, got %s", raw)
		}
		s = n.String()
	}
	*dst = &s
	return nil
}

func applyArray(dst **string, raw json.RawMessage) error {
	if raw == nil {
		return nil
	}
	if isNull(raw) {
		*dst = nil
		return nil
	}
	var items []any
	if err := json.Unmarshal(raw, &items); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("expected an array, got %s", raw)
		}
		items = DecodeJSONArray(&s)
	}
	if items == nil {
		items = []any{}
	}
	out, err := json.Marshal(items)
	if err != nil {
		return err
	}
	text := string(out)
	*dst = &text
	return nil
}

func applyInt(dst **int64, raw json.RawMessage) error {
	if raw == nil {
		return nil
	}
	if isNull(raw) || isEmptyString(raw) {
		*dst = nil
		return nil
	}
	n, err := decodeNumber(raw)
	if err != nil {
		return err
	}
	i, err := strconv.ParseInt(n, 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(n, 64)
		if ferr != nil || f != float64(int64(f)) {
			return fmt.Errorf("expected an integer, got %s", raw)
		}
		i = int64(f)
	}
	*dst = &i
	return nil
}

func applyFloat(dst **float64, raw json.RawMessage) error {
	if raw == nil {
		return nil
	}
	if isNull(raw) || isEmptyString(raw) {
		*dst = nil
		return nil
	}
	n, err := decodeNumber(raw)
	if err != nil {
		return err
	}
	f, err := strconv.ParseFloat(n, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return fmt.Errorf("expected a number, got %s", raw)
	}
	*dst = &f
	return nil
}

func applyDate(dst **civil.Date, raw json.RawMessage) error {
	if raw == nil {
		return nil
	}
	if isNull(raw) || isEmptyString(raw) {
		*dst = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("expected a date string, got %s", raw)
	}
	d, err := civil.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", s, err)
	}
	*dst = &d
	return nil
}

var datetimeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05", "2006-01-02T15:04:05"}

func applyDatetime(dst **time.Time, raw json.RawMessage) error {
	if raw == nil {
		return nil
	}
	if isNull(raw) || isEmptyString(raw) {
		*dst = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return fmt.Errorf("expected a datetime string, got %s", raw)
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			*dst = &t
			return nil
		}
	}
	return fmt.Errorf("invalid datetime %q", s)
}

func decodeBool(raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, nil
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b, nil
	}
	n, err := decodeNumber(raw)
	if err != nil {
		return false, fmt.Errorf("expected a boolean, got %s", raw)
	}
	return n != "0", nil
}

// decodeNumber accepts a JSON number or a finite numeric string.
func decodeNumber(raw json.RawMessage) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", fmt.Errorf("expected a number, got %s", raw)
	}
	switch n := v.(type) {
	case json.Number:
		return n.String(), nil
	case string:
		s := strings.TrimSpace(n)
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", fmt.Errorf("expected a number, got %q", n)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("expected a finite number, got %q", n)
		}
		return s, nil
	default:
		return "", fmt.Errorf("expected a number, got %s", raw)
	}
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func isEmptyString(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == `""`
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func deref[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
