package domain

import (
	"encoding/json"
)

// Input is a create or update payload for a value, in the attribute-agnostic
// shape clients and cascade jobs use.
//
// Value fields are raw JSON: a nil field was not supplied, while a JSON null
// explicitly clears the slots it maps to.
type Input struct {
	ID          string   `json:"id,omitempty"`
	ProductID   string   `json:"productId,omitempty"`
	ProductName string   `json:"productName,omitempty"`
	AttributeID string   `json:"attributeId,omitempty"`
	Scope       Scope    `json:"scope,omitempty"`
	ChannelID   *string  `json:"channelId,omitempty"`
	Language    string   `json:"language,omitempty"`
	Languages   []string `json:"languages,omitempty"`

	IsVariantSpecificAttribute *bool `json:"isVariantSpecificAttribute,omitempty"`

	Value         json.RawMessage `json:"value,omitempty"`
	ValueUnitID   json.RawMessage `json:"valueUnitId,omitempty"`
	ValueCurrency json.RawMessage `json:"valueCurrency,omitempty"`
	ValueFrom     json.RawMessage `json:"valueFrom,omitempty"`
	ValueTo       json.RawMessage `json:"valueTo,omitempty"`
	ValueID       json.RawMessage `json:"valueId,omitempty"`

	// ValueAddOnlyMode merges an array value into the stored one instead of
	// replacing it.
	ValueAddOnlyMode bool `json:"valueAddOnlyMode,omitempty"`

	OwnerUserID    *string  `json:"ownerUserId,omitempty"`
	AssignedUserID *string  `json:"assignedUserId,omitempty"`
	TeamsIDs       []string `json:"teamsIds,omitempty"`
}

// HasValueFields reports whether any value-bearing field was supplied.
func (in *Input) HasValueFields() bool {
	return in.Value != nil ||
		in.ValueUnitID != nil ||
		in.ValueCurrency != nil ||
		in.ValueFrom != nil ||
		in.ValueTo != nil ||
		in.ValueID != nil
}

// CopyValueFields copies the value-bearing fields of src that were supplied.
func (in *Input) CopyValueFields(src *Input) {
	if src.Value != nil {
		in.Value = cloneRaw(src.Value)
	}
	if src.ValueUnitID != nil {
		in.ValueUnitID = cloneRaw(src.ValueUnitID)
	}
	if src.ValueCurrency != nil {
		in.ValueCurrency = cloneRaw(src.ValueCurrency)
	}
	if src.ValueFrom != nil {
		in.ValueFrom = cloneRaw(src.ValueFrom)
	}
	if src.ValueTo != nil {
		in.ValueTo = cloneRaw(src.ValueTo)
	}
	if src.ValueID != nil {
		in.ValueID = cloneRaw(src.ValueID)
	}
}

// IsEmpty reports whether the payload would change nothing.
func (in *Input) IsEmpty() bool {
	return !in.HasValueFields() && in.IsVariantSpecificAttribute == nil
}

// Clone returns a deep copy of in.
func (in *Input) Clone() *Input {
	if in == nil {
		return nil
	}
	c := *in
	c.ChannelID = clonePtr(in.ChannelID)
	c.IsVariantSpecificAttribute = clonePtr(in.IsVariantSpecificAttribute)
	c.OwnerUserID = clonePtr(in.OwnerUserID)
	c.AssignedUserID = clonePtr(in.AssignedUserID)
	if in.Languages != nil {
		c.Languages = append([]string(nil), in.Languages...)
	}
	if in.TeamsIDs != nil {
		c.TeamsIDs = append([]string(nil), in.TeamsIDs...)
	}
	c.Value = cloneRaw(in.Value)
	c.ValueUnitID = cloneRaw(in.ValueUnitID)
	c.ValueCurrency = cloneRaw(in.ValueCurrency)
	c.ValueFrom = cloneRaw(in.ValueFrom)
	c.ValueTo = cloneRaw(in.ValueTo)
	c.ValueID = cloneRaw(in.ValueID)
	return &c
}

// DecodeArrayString rewrites a value supplied as a JSON string holding an
// array into the array itself.
func (in *Input) DecodeArrayString() {
	if in.Value == nil {
		return
	}
	var s string
	if err := json.Unmarshal(in.Value, &s); err != nil {
		return
	}
	var items []any
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		items = nil
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return
	}
	in.Value = raw
}

// Raw encodes v as a raw JSON field value.
func Raw(v any) json.RawMessage {
	out, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return out
}

func cloneRaw(r json.RawMessage) json.RawMessage {
	if r == nil {
		return nil
	}
	return append(json.RawMessage(nil), r...)
}
