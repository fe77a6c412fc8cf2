package presentation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/pavtest"
	"github.com/light-bringer/pav-service/internal/app/pav/presentation"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

func setup(t *testing.T) (*pavtest.Fixture, *presentation.Preparer) {
	t.Helper()
	f := pavtest.New()
	f.Products("p")
	f.Mem.PutProduct(&domain.Product{ID: "c", Name: "Child", ClassificationIDs: []string{"cl1"}})
	f.Mem.Link("p", "c", false)
	f.Mem.PutChannel(&domain.Channel{ID: "web", Name: "Webshop", Code: "ws"})

	color := f.Attribute("color", domain.TypeVarchar)
	color.Names = map[string]string{"de_DE": "Farbe"}
	color.AttributeGroupID = "g1"
	color.SortOrderInAttributeGroup = domain.Ptr(int64(3))
	color.SortOrderInProduct = domain.Ptr(int64(9))
	f.Mem.PutAttribute(color)
	f.Mem.PutClassificationAttribute(&domain.ClassificationAttribute{
		ID:               "ca1",
		ClassificationID: "cl1",
		AttributeID:      "color",
		Scope:            domain.ScopeChannel,
		ChannelID:        "web",
		Language:         domain.LanguageMain,
		IsRequired:       true,
		MaxLength:        domain.Ptr(int64(10)),
	})

	f.Varchar("pv", "p", "color", "red")
	f.Varchar("cv", "c", "color", "red")
	de := f.Varchar("cv-de", "c", "color", "rot")
	de.Language = "de_DE"
	f.Mem.PutValue(de)
	f.Mem.PutValue(&domain.Value{
		ID:            "cw",
		ProductID:     "c",
		AttributeID:   "color",
		Scope:         domain.ScopeChannel,
		ChannelID:     "web",
		AttributeType: domain.TypeVarchar,
		VarcharValue:  domain.Ptr("blue"),
	})

	return f, presentation.NewPreparer(f.Mem.AttributeRepo(), f.Mem.ChannelRepo(), f.Resolver)
}

func prepare(t *testing.T, f *pavtest.Fixture, p *presentation.Preparer, id, locale string) *presentation.Value {
	t.Helper()
	var out *presentation.Value
	err := f.Mem.View(context.Background(), nil, func(ctx context.Context, tx committer.Tx) error {
		v, err := f.Mem.ValueRepo().GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		out, err = p.PrepareValue(ctx, tx, v, locale)
		return err
	})
	require.NoError(t, err)
	return out
}

func TestPrepareValue_Inherited(t *testing.T) {
	f, p := setup(t)

	out := prepare(t, f, p, "cv", "de_DE")
	assert.Equal(t, "Farbe", out.AttributeName)
	assert.Equal(t, presentation.GlobalChannelName, out.ChannelName)
	assert.Empty(t, out.ChannelID)
	assert.Equal(t, int64(3), *out.SortOrder)
	assert.Equal(t, "red", out.Value)
	assert.True(t, out.IsPavRelationInherited)
	require.NotNil(t, out.IsPavValueInherited)
	assert.True(t, *out.IsPavValueInherited)
	assert.False(t, out.IsRequired)
}

func TestPrepareValue_LanguageSuffix(t *testing.T) {
	f, p := setup(t)

	out := prepare(t, f, p, "cv-de", "")
	assert.Equal(t, "color / de_DE", out.AttributeName)
	assert.False(t, out.IsPavRelationInherited)
	assert.Nil(t, out.IsPavValueInherited)
}

func TestPrepareValue_ChannelAndOverride(t *testing.T) {
	f, p := setup(t)

	out := prepare(t, f, p, "cw", "")
	assert.Equal(t, "web", out.ChannelID)
	assert.Equal(t, "Webshop", out.ChannelName)
	assert.Equal(t, "ws", out.ChannelCode)
	assert.True(t, out.IsRequired)
	assert.Equal(t, int64(10), *out.MaxLength)

	// the override marks the relation inherited without a parent counterpart
	assert.True(t, out.IsPavRelationInherited)
	require.NotNil(t, out.IsPavValueInherited)
	assert.False(t, *out.IsPavValueInherited)
}
