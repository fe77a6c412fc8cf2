package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNoteData(t *testing.T) {
	t.Run("no payload means no note", func(t *testing.T) {
		assert.Nil(t, BuildNoteData(nil, &Value{AttributeType: TypeVarchar}, nil))
	})

	t.Run("varchar change", func(t *testing.T) {
		before := &Value{ID: "v1", Language: "de_DE", AttributeType: TypeVarchar, VarcharValue: Ptr("red")}
		after := before.Clone()
		after.VarcharValue = Ptr("blue")

		data := BuildNoteData(before, after, &Input{Value: json.RawMessage(`"blue"`)})
		require.NotNil(t, data)
		assert.Equal(t, "v1", data.ID)
		assert.Equal(t, "de_DE", data.Locale)
		assert.Equal(t, []string{"value"}, data.Fields)
		assert.Equal(t, "red", data.Attributes.Was["value"])
		assert.Equal(t, "blue", data.Attributes.Became["value"])
	})

	t.Run("unchanged value yields nil", func(t *testing.T) {
		v := &Value{Language: LanguageMain, AttributeType: TypeText, TextValue: Ptr("same")}
		assert.Nil(t, BuildNoteData(v, v.Clone(), &Input{Value: json.RawMessage(`"same"`)}))
	})

	t.Run("range float reports both bounds that were supplied", func(t *testing.T) {
		before := &Value{AttributeType: TypeRangeFloat, FloatValue: Ptr(1.0), FloatValue1: Ptr(2.0), ReferenceValue: Ptr("m")}
		after := before.Clone()
		after.FloatValue = Ptr(1.5)
		after.FloatValue1 = Ptr(3.0)
		after.ReferenceValue = Ptr("cm")

		data := BuildNoteData(before, after, &Input{
			ValueFrom:   json.RawMessage(`1.5`),
			ValueUnitID: json.RawMessage(`"cm"`),
		})
		require.NotNil(t, data)
		assert.Equal(t, []string{"valueFrom", "valueUnit"}, data.Fields)
		assert.Equal(t, 1.0, data.Attributes.Was["valueFrom"])
		assert.Equal(t, 1.5, data.Attributes.Became["valueFrom"])
		assert.Equal(t, "m", data.Attributes.Was["valueUnitId"])
		assert.Equal(t, "cm", data.Attributes.Became["valueUnitId"])
	})

	t.Run("new currency value", func(t *testing.T) {
		after := &Value{Language: LanguageMain, AttributeType: TypeCurrency, FloatValue: Ptr(9.99), VarcharValue: Ptr("EUR")}

		data := BuildNoteData(nil, after, &Input{Value: json.RawMessage(`9.99`), ValueCurrency: json.RawMessage(`"EUR"`)})
		require.NotNil(t, data)
		assert.Equal(t, "", data.Locale)
		assert.Equal(t, []string{"value", "valueCurrency"}, data.Fields)
		assert.Nil(t, data.Attributes.Was["value"])
		assert.Equal(t, "EUR", data.Attributes.Became["valueCurrency"])
	})

	t.Run("asset uses valueId key", func(t *testing.T) {
		after := &Value{AttributeType: TypeAsset, ReferenceValue: Ptr("file-2")}
		data := BuildNoteData(&Value{AttributeType: TypeAsset, ReferenceValue: Ptr("file-1")}, after, &Input{ValueID: json.RawMessage(`"file-2"`)})

		require.NotNil(t, data)
		assert.Equal(t, "file-1", data.Attributes.Was["valueId"])
		assert.Equal(t, "file-2", data.Attributes.Became["valueId"])
	})
}

func TestChangeTracker(t *testing.T) {
	ct := NewChangeTracker()
	assert.False(t, ct.HasChanges())

	ct.MarkDirty("valueTo")
	ct.MarkDirty("value")
	ct.MarkDirty("valueTo")

	assert.True(t, ct.Dirty("value"))
	assert.Equal(t, []string{"valueTo", "value"}, ct.DirtyFields())

	ct.Clear()
	assert.False(t, ct.HasChanges())
}
