package domain

import (
	"fmt"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func sampleValues() []*Value {
	day := civil.Date{Year: 2024, Month: 3, Day: 1}
	at := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	var samples []*Value
	for _, t := range append(AttributeTypes, "") {
		samples = append(samples,
			&Value{AttributeType: t},
			&Value{AttributeType: t, VarcharValue: Ptr("red"), ReferenceValue: Ptr("cm")},
			&Value{AttributeType: t, VarcharValue: Ptr("red")},
			&Value{AttributeType: t, TextValue: Ptr(`["a","b"]`)},
			&Value{AttributeType: t, TextValue: Ptr(`[ "a", "b" ]`)},
			&Value{AttributeType: t, TextValue: Ptr("not json")},
			&Value{AttributeType: t, BoolValue: true},
			&Value{AttributeType: t, IntValue: Ptr(int64(5)), IntValue1: Ptr(int64(10))},
			&Value{AttributeType: t, FloatValue: Ptr(1.5), VarcharValue: Ptr("EUR")},
			&Value{AttributeType: t, FloatValue: Ptr(1.5 + FloatEpsilon/10), VarcharValue: Ptr("EUR")},
			&Value{AttributeType: t, FloatValue: Ptr(1.5), FloatValue1: Ptr(2.5), ReferenceValue: Ptr("kg")},
			&Value{AttributeType: t, DateValue: &day},
			&Value{AttributeType: t, DatetimeValue: &at},
			&Value{AttributeType: t, ReferenceValue: Ptr("opt-1")},
		)
	}
	return samples
}

func TestValuesEqual_Symmetric(t *testing.T) {
	samples := sampleValues()
	for i, a := range samples {
		for j, b := range samples {
			assert.Equal(t, ValuesEqual(a, b), ValuesEqual(b, a),
				fmt.Sprintf("samples %d (%s) and %d (%s)", i, a.AttributeType, j, b.AttributeType))
		}
	}
}

func TestValuesEqual_Reflexive(t *testing.T) {
	for _, v := range sampleValues() {
		assert.True(t, ValuesEqual(v, v.Clone()), string(v.AttributeType))
	}
}

func TestValuesEqual_ByType(t *testing.T) {
	tests := []struct {
		name  string
		a, b  *Value
		equal bool
	}{
		{
			name:  "varchar compares unit",
			a:     &Value{AttributeType: TypeVarchar, VarcharValue: Ptr("10"), ReferenceValue: Ptr("cm")},
			b:     &Value{AttributeType: TypeVarchar, VarcharValue: Ptr("10"), ReferenceValue: Ptr("mm")},
			equal: false,
		},
		{
			name:  "text ignores reference",
			a:     &Value{AttributeType: TypeText, TextValue: Ptr("x"), ReferenceValue: Ptr("a")},
			b:     &Value{AttributeType: TypeText, TextValue: Ptr("x")},
			equal: true,
		},
		{
			name:  "array compares decoded json",
			a:     &Value{AttributeType: TypeArray, TextValue: Ptr(`["a", "b"]`)},
			b:     &Value{AttributeType: TypeArray, TextValue: Ptr(`["a","b"]`)},
			equal: true,
		},
		{
			name:  "undecodable array equals empty array",
			a:     &Value{AttributeType: TypeExtensibleMultiEnum, TextValue: Ptr("garbage")},
			b:     &Value{AttributeType: TypeExtensibleMultiEnum},
			equal: true,
		},
		{
			name:  "currency compares code",
			a:     &Value{AttributeType: TypeCurrency, FloatValue: Ptr(9.99), VarcharValue: Ptr("EUR")},
			b:     &Value{AttributeType: TypeCurrency, FloatValue: Ptr(9.99), VarcharValue: Ptr("USD")},
			equal: false,
		},
		{
			name:  "float within tolerance",
			a:     &Value{AttributeType: TypeFloat, FloatValue: Ptr(0.1 + 0.2)},
			b:     &Value{AttributeType: TypeFloat, FloatValue: Ptr(0.3)},
			equal: true,
		},
		{
			name:  "range int compares upper bound",
			a:     &Value{AttributeType: TypeRangeInt, IntValue: Ptr(int64(1)), IntValue1: Ptr(int64(2))},
			b:     &Value{AttributeType: TypeRangeInt, IntValue: Ptr(int64(1)), IntValue1: Ptr(int64(3))},
			equal: false,
		},
		{
			name:  "extensible enum compares reference only",
			a:     &Value{AttributeType: TypeExtensibleEnum, ReferenceValue: Ptr("o1"), VarcharValue: Ptr("x")},
			b:     &Value{AttributeType: TypeExtensibleEnum, ReferenceValue: Ptr("o1")},
			equal: true,
		},
		{
			name:  "different known types never match",
			a:     &Value{AttributeType: TypeVarchar, VarcharValue: Ptr("x")},
			b:     &Value{AttributeType: TypeText, VarcharValue: Ptr("x")},
			equal: false,
		},
		{
			name:  "untyped side takes the other type",
			a:     &Value{AttributeType: TypeBool, BoolValue: true},
			b:     &Value{BoolValue: true},
			equal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.equal, ValuesEqual(tt.a, tt.b))
			assert.Equal(t, tt.equal, ValuesEqual(tt.b, tt.a))
		})
	}
}

func TestComparedSlots_CoversEveryType(t *testing.T) {
	for _, typ := range AttributeTypes {
		assert.NotEmpty(t, ComparedSlots(typ), string(typ))
	}
	assert.Equal(t, []Slot{SlotVarchar}, ComparedSlots("unknown"))
}
