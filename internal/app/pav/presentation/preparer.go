package presentation

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/inheritance"
	"github.com/light-bringer/pav-service/internal/app/pav/valuestore"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

// GlobalChannelName is the channel name shown for Global values.
const GlobalChannelName = "Global"

// Value is a value decorated for output.
type Value struct {
	ID          string `json:"id"`
	ProductID   string `json:"productId"`
	AttributeID string `json:"attributeId"`

	AttributeName        string               `json:"attributeName"`
	AttributeCode        string               `json:"attributeCode,omitempty"`
	AttributeType        domain.AttributeType `json:"attributeType"`
	AttributeIsMultilang bool                 `json:"attributeIsMultilang"`
	AttributeGroupID     string               `json:"attributeGroupId,omitempty"`
	AttributeGroupName   string               `json:"attributeGroupName,omitempty"`
	AttributeMeasureID   string               `json:"attributeMeasureId,omitempty"`
	SortOrder            *int64               `json:"sortOrder"`

	Scope       domain.Scope `json:"scope"`
	ChannelID   string       `json:"channelId"`
	ChannelName string       `json:"channelName"`
	ChannelCode string       `json:"channelCode,omitempty"`
	Language    string       `json:"language"`

	IsVariantSpecificAttribute bool `json:"isVariantSpecificAttribute"`

	IsRequired                    bool     `json:"isRequired"`
	MaxLength                     *int64   `json:"maxLength,omitempty"`
	CountBytesInsteadOfCharacters bool     `json:"countBytesInsteadOfCharacters"`
	Min                           *float64 `json:"min,omitempty"`
	Max                           *float64 `json:"max,omitempty"`
	AmountOfDigitsAfterComma      *int64   `json:"amountOfDigitsAfterComma,omitempty"`

	IsPavRelationInherited bool  `json:"isPavRelationInherited"`
	IsPavValueInherited    *bool `json:"isPavValueInherited,omitempty"`

	domain.ValueView

	OwnerUserID    string    `json:"ownerUserId,omitempty"`
	AssignedUserID string    `json:"assignedUserId,omitempty"`
	TeamsIDs       []string  `json:"teamsIds,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	ModifiedAt     time.Time `json:"modifiedAt"`
}

// Preparer decorates values for output.
type Preparer struct {
	attributes contracts.AttributeRepository
	channels   contracts.ChannelRepository
	resolver   *inheritance.Resolver
}

// NewPreparer creates a new Preparer.
func NewPreparer(attributes contracts.AttributeRepository, channels contracts.ChannelRepository, resolver *inheritance.Resolver) *Preparer {
	return &Preparer{
		attributes: attributes,
		channels:   channels,
		resolver:   resolver,
	}
}

// PrepareValue decorates v for a reader using locale. The attribute name is
// localized and suffixed with the value's language; constraints reflect the
// classification override; the inheritance flags are computed against the
// parent products.
func (p *Preparer) PrepareValue(ctx context.Context, tx committer.Tx, v *domain.Value, locale string) (*Value, error) {
	attr, err := p.attributes.GetByID(ctx, tx, v.AttributeID)
	if err != nil {
		return nil, err
	}

	out := &Value{
		ID:                         v.ID,
		ProductID:                  v.ProductID,
		AttributeID:                v.AttributeID,
		AttributeName:              attr.NameFor(locale),
		AttributeCode:              attr.Code,
		AttributeType:              attr.Type,
		AttributeIsMultilang:       attr.IsMultilang,
		AttributeGroupID:           attr.AttributeGroupID,
		AttributeGroupName:         attr.AttributeGroupName,
		AttributeMeasureID:         attr.MeasureID,
		Scope:                      v.Scope,
		ChannelID:                  v.ChannelID,
		Language:                   v.Language,
		IsVariantSpecificAttribute: v.IsVariantSpecificAttribute,
		OwnerUserID:                v.OwnerUserID,
		AssignedUserID:             v.AssignedUserID,
		TeamsIDs:                   v.TeamsIDs,
		CreatedAt:                  v.CreatedAt,
		ModifiedAt:                 v.ModifiedAt,
	}
	if v.Language != domain.LanguageMain {
		name := attr.Name
		if name == "" {
			name = attr.ID
		}
		out.AttributeName = name + " / " + v.Language
	}
	if attr.AttributeGroupID != "" {
		out.SortOrder = attr.SortOrderInAttributeGroup
	} else {
		out.SortOrder = attr.SortOrderInProduct
	}

	if v.Scope == domain.ScopeGlobal {
		out.ChannelID = ""
		out.ChannelName = GlobalChannelName
	} else if v.ChannelID != "" {
		ch, err := p.channels.GetByID(ctx, tx, v.ChannelID)
		if err == nil {
			out.ChannelName = ch.Name
			out.ChannelCode = ch.Code
		}
	}

	override, err := p.resolver.FindClassificationAttribute(ctx, tx, v)
	if err != nil {
		return nil, err
	}
	constrained := v.Clone()
	valuestore.ApplyConstraints(attr, constrained, override)
	out.IsRequired = constrained.IsRequired
	out.MaxLength = constrained.MaxLength
	out.CountBytesInsteadOfCharacters = constrained.CountBytesInsteadOfCharacters
	out.Min = constrained.Min
	out.Max = constrained.Max
	out.AmountOfDigitsAfterComma = constrained.AmountOfDigitsAfterComma

	inherited, err := p.resolver.IsRelationInherited(ctx, tx, v)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve relation inheritance: %w", err)
	}
	out.IsPavRelationInherited = inherited || override != nil
	if out.IsPavRelationInherited {
		out.IsPavValueInherited, err = p.resolver.IsValueInherited(ctx, tx, v)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve value inheritance: %w", err)
		}
	}

	out.ValueView = domain.View(v)
	return out, nil
}

// Catalog loads the attributes and channel names referenced by values.
func (p *Preparer) Catalog(ctx context.Context, tx committer.Tx, values []*domain.Value) (Catalog, error) {
	attrIDs := make([]string, 0, len(values))
	var channelIDs []string
	for _, v := range values {
		attrIDs = append(attrIDs, v.AttributeID)
		if v.Scope == domain.ScopeChannel && v.ChannelID != "" {
			channelIDs = append(channelIDs, v.ChannelID)
		}
	}

	attrs, err := p.attributes.ListByIDs(ctx, tx, attrIDs)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to load attributes: %w", err)
	}
	channels, err := p.channels.ListByIDs(ctx, tx, channelIDs)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to load channels: %w", err)
	}

	c := Catalog{
		Attributes:   make(map[string]*domain.Attribute, len(attrs)),
		ChannelNames: make(map[string]string, len(channels)),
	}
	for _, a := range attrs {
		c.Attributes[a.ID] = a
	}
	for _, ch := range channels {
		c.ChannelNames[ch.ID] = ch.Name
	}
	return c, nil
}
