// Package presentation derives the display structures of product attribute
// values: grouped and ordered row lists and decorated single values.
package presentation

import (
	"math"
	"sort"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
)

// NoGroupKey is the key of the synthetic group collecting values whose
// attribute is in no attribute group.
const NoGroupKey = "no_group"

// globalChannel orders Global values before every named channel.
const globalChannel = "-9999"

// Group is an attribute group with the ids of its values in display order.
type Group struct {
	ID      string   `json:"id"`
	Key     string   `json:"key"`
	Label   string   `json:"label"`
	RowList []string `json:"rowList"`
}

// Catalog holds the attributes and channel names that values refer to.
type Catalog struct {
	Attributes   map[string]*domain.Attribute
	ChannelNames map[string]string
}

type row struct {
	value       *domain.Value
	sortOrder   int64
	channelName string
	language    string
}

func (c Catalog) row(v *domain.Value, grouped bool) row {
	r := row{value: v, channelName: globalChannel}
	if v.Scope != domain.ScopeGlobal {
		r.channelName = c.ChannelNames[v.ChannelID]
	}
	if v.Language != domain.LanguageMain {
		r.language = v.Language
	}

	attr := c.Attributes[v.AttributeID]
	if attr == nil {
		return r
	}
	if grouped {
		r.sortOrder = orZero(attr.SortOrderInAttributeGroup)
	} else {
		r.sortOrder = orZero(attr.SortOrderInProduct)
	}
	return r
}

func sortRows(rows []row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.sortOrder != b.sortOrder {
			return a.sortOrder < b.sortOrder
		}
		if a.channelName != b.channelName {
			return a.channelName < b.channelName
		}
		return a.language < b.language
	})
}

// Groups buckets values by attribute group. Groups are ordered by their sort
// order with the no-group bucket last; rows are ordered by attribute sort
// order, then channel name with Global first, then language with main first.
// Groups without values are left out.
func Groups(values []*domain.Value, catalog Catalog, noGroupLabel string) []Group {
	type bucket struct {
		group     Group
		sortOrder int64
		rows      []row
	}

	var order []string
	buckets := make(map[string]*bucket)
	for _, v := range values {
		attr := catalog.Attributes[v.AttributeID]
		if attr == nil || attr.AttributeGroupID == "" {
			continue
		}
		if _, ok := buckets[attr.AttributeGroupID]; ok {
			continue
		}
		buckets[attr.AttributeGroupID] = &bucket{
			group: Group{
				ID:    attr.AttributeGroupID,
				Key:   attr.AttributeGroupID,
				Label: attr.AttributeGroupName,
			},
			sortOrder: orZero(attr.AttributeGroupSortOrder),
		}
		order = append(order, attr.AttributeGroupID)
	}
	buckets[NoGroupKey] = &bucket{
		group:     Group{Key: NoGroupKey, Label: noGroupLabel},
		sortOrder: math.MaxInt64,
	}
	order = append(order, NoGroupKey)

	sort.SliceStable(order, func(i, j int) bool {
		return buckets[order[i]].sortOrder < buckets[order[j]].sortOrder
	})

	for _, v := range values {
		key := NoGroupKey
		if attr := catalog.Attributes[v.AttributeID]; attr != nil && attr.AttributeGroupID != "" {
			key = attr.AttributeGroupID
		}
		b := buckets[key]
		b.rows = append(b.rows, catalog.row(v, key != NoGroupKey))
	}

	out := make([]Group, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		if len(b.rows) == 0 {
			continue
		}
		sortRows(b.rows)
		b.group.RowList = make([]string, 0, len(b.rows))
		for _, r := range b.rows {
			b.group.RowList = append(b.group.RowList, r.value.ID)
		}
		out = append(out, b.group)
	}
	return out
}

// SortValues returns values in display order: attribute sort order (within
// the group when the attribute has one), then channel name with Global
// first, then language with main first. The input slice is not modified.
func SortValues(values []*domain.Value, catalog Catalog) []*domain.Value {
	rows := make([]row, 0, len(values))
	for _, v := range values {
		grouped := false
		if attr := catalog.Attributes[v.AttributeID]; attr != nil {
			grouped = attr.AttributeGroupID != ""
		}
		rows = append(rows, catalog.row(v, grouped))
	}
	sortRows(rows)

	out := make([]*domain.Value, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.value)
	}
	return out
}

func orZero(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}
