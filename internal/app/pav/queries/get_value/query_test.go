package get_value_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/pavtest"
	"github.com/light-bringer/pav-service/internal/app/pav/presentation"
	"github.com/light-bringer/pav-service/internal/app/pav/queries/get_value"
)

func TestGetValue(t *testing.T) {
	f := pavtest.New()
	f.Products("p")
	color := f.Attribute("color", domain.TypeVarchar)
	color.Names = map[string]string{"de_DE": "Farbe"}
	f.Mem.PutAttribute(color)
	f.Varchar("v1", "p", "color", "red")

	q := get_value.NewQuery(f.Mem, f.Mem.ValueRepo(), presentation.NewPreparer(f.Mem.AttributeRepo(), f.Mem.ChannelRepo(), f.Resolver))

	v, err := q.Execute(context.Background(), &get_value.Request{ID: "v1", Locale: "de_DE"})
	require.NoError(t, err)
	assert.Equal(t, "v1", v.ID)
	assert.Equal(t, "red", v.Value)
	assert.Equal(t, domain.ScopeGlobal, v.Scope)

	_, err = q.Execute(context.Background(), &get_value.Request{ID: "missing"})
	assert.ErrorIs(t, err, domain.ErrValueNotFound)
}
