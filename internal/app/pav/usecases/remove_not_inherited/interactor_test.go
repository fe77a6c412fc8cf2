package remove_not_inherited_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/pavtest"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/remove_not_inherited"
)

func TestRemoveByTab(t *testing.T) {
	f := pavtest.New()
	f.Products("p", "other")
	seo := f.Attribute("meta_title", domain.TypeVarchar)
	seo.AttributeTabID = "seo"
	f.Mem.PutAttribute(seo)
	f.Attribute("color", domain.TypeVarchar)
	f.Varchar("v1", "p", "meta_title", "Chair")
	f.Varchar("v2", "p", "color", "red")
	f.Varchar("v3", "other", "meta_title", "Table")

	uc := remove_not_inherited.NewInteractor(f.Mem, f.Mem.ValueRepo(), f.Mem.AttributeRepo(), f.Store, zap.NewNop())

	n, err := uc.Execute(context.Background(), &remove_not_inherited.Request{ProductID: "p", TabID: "seo"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	v1, _ := f.Mem.Value("v1")
	assert.True(t, v1.Deleted)
	assert.Len(t, f.Mem.LiveValues(), 2)

	// attributes without a tab
	n, err = uc.Execute(context.Background(), &remove_not_inherited.Request{ProductID: "p"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, f.Mem.LiveValues(), 1)
	assert.Empty(t, f.Mem.Jobs())
}
