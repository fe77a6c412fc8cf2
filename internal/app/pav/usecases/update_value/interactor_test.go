package update_value_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/app/pav/pavtest"
	"github.com/light-bringer/pav-service/internal/app/pav/usecases/update_value"
)

func family(t *testing.T) *pavtest.Fixture {
	t.Helper()
	f := pavtest.New()
	f.Products("p", "c", "g")
	f.Mem.Link("p", "c", false)
	f.Mem.Link("c", "g", false)
	f.Attribute("color", domain.TypeVarchar)
	return f
}

func TestUpdate_CascadeComparesAgainstStoredValue(t *testing.T) {
	f := family(t)
	f.Varchar("pv", "p", "color", "red")
	f.Varchar("cv", "c", "color", "red")
	f.Varchar("gv", "g", "color", "red")

	out, err := f.Update.Execute(context.Background(), &update_value.Request{
		ID:    "pv",
		Input: &domain.Input{Value: domain.Raw("blue")},
	})
	require.NoError(t, err)
	assert.Equal(t, "blue", *out.VarcharValue)

	valueJobs := f.JobsOf(domain.EntityValue)
	require.Len(t, valueJobs, 2)
	assert.Equal(t, "cv", valueJobs[0].EntityID)
	assert.Equal(t, "gv", valueJobs[1].EntityID)
	for _, job := range valueJobs {
		in, err := job.DecodeInput()
		require.NoError(t, err)
		assert.JSONEq(t, `"blue"`, string(in.Value))
	}

	// descendants change only when their jobs run
	cv, _ := f.Mem.Value("cv")
	assert.Equal(t, "red", *cv.VarcharValue)
}

func TestUpdate_DivergedChildKeepsItsValue(t *testing.T) {
	f := family(t)
	f.Varchar("pv", "p", "color", "red")
	f.Varchar("cv", "c", "color", "green")

	_, err := f.Update.Execute(context.Background(), &update_value.Request{
		ID:    "pv",
		Input: &domain.Input{Value: domain.Raw("blue")},
	})
	require.NoError(t, err)
	assert.Empty(t, f.Mem.Jobs())

	_, err = f.Update.Execute(context.Background(), &update_value.Request{
		ID:    "pv",
		Input: &domain.Input{IsVariantSpecificAttribute: domain.Ptr(true)},
	})
	require.NoError(t, err)
	valueJobs := f.JobsOf(domain.EntityValue)
	require.Len(t, valueJobs, 1)
	in, err := valueJobs[0].DecodeInput()
	require.NoError(t, err)
	assert.Nil(t, in.Value)
	require.NotNil(t, in.IsVariantSpecificAttribute)
	assert.True(t, *in.IsVariantSpecificAttribute)
}

func TestUpdate_EnqueueFailureRollsBack(t *testing.T) {
	f := family(t)
	f.Varchar("pv", "p", "color", "red")
	f.Varchar("cv", "c", "color", "red")
	f.Varchar("gv", "g", "color", "red")
	boom := errors.New("queue unavailable")
	f.Mem.FailOn("jobs.Insert", 3, boom)

	_, err := f.Update.Execute(context.Background(), &update_value.Request{
		ID:    "pv",
		Input: &domain.Input{Value: domain.Raw("blue")},
	})
	require.ErrorIs(t, err, boom)

	pv, _ := f.Mem.Value("pv")
	assert.Equal(t, "red", *pv.VarcharValue)
	assert.Empty(t, f.Mem.Jobs())
}

func TestUpdate_ReplayDoesNotCascade(t *testing.T) {
	f := family(t)
	f.Varchar("pv", "p", "color", "red")
	f.Varchar("cv", "c", "color", "red")

	_, err := f.Update.Execute(context.Background(), &update_value.Request{
		ID:     "pv",
		Input:  &domain.Input{Value: domain.Raw("blue")},
		Replay: true,
	})
	require.NoError(t, err)
	assert.Empty(t, f.Mem.Jobs())
}

func TestUpdate_AddOnlyMerge(t *testing.T) {
	f := family(t)
	f.Attribute("tags", domain.TypeArray)
	seed := func(id, product string) {
		f.Mem.PutValue(&domain.Value{
			ID:            id,
			ProductID:     product,
			AttributeID:   "tags",
			AttributeType: domain.TypeArray,
			TextValue:     domain.Ptr(`["a","b"]`),
		})
	}
	seed("pv", "p")
	seed("cv", "c")

	out, err := f.Update.Execute(context.Background(), &update_value.Request{
		ID:    "pv",
		Input: &domain.Input{Value: domain.Raw([]string{"b", "c"}), ValueAddOnlyMode: true},
	})
	require.NoError(t, err)
	require.NotNil(t, out.TextValue)
	assert.JSONEq(t, `["a","b","c"]`, *out.TextValue)

	// the child receives the merged array, not the added items
	valueJobs := f.JobsOf(domain.EntityValue)
	require.Len(t, valueJobs, 1)
	in, err := valueJobs[0].DecodeInput()
	require.NoError(t, err)
	var items []string
	require.NoError(t, json.Unmarshal(in.Value, &items))
	assert.Equal(t, []string{"a", "b", "c"}, items)
	assert.False(t, in.ValueAddOnlyMode)
}

func TestUpdate_UniqueAttribute(t *testing.T) {
	f := pavtest.New()
	f.Products("p1", "p2")
	sku := f.Attribute("sku", domain.TypeVarchar)
	sku.Unique = true
	f.Mem.PutAttribute(sku)
	f.Varchar("v1", "p1", "sku", "A-1")
	f.Mem.PutValue(&domain.Value{ID: "v2", ProductID: "p2", AttributeID: "sku", AttributeType: domain.TypeVarchar, VarcharValue: domain.Ptr("B-2")})

	_, err := f.Update.Execute(context.Background(), &update_value.Request{
		ID:    "v2",
		Input: &domain.Input{Value: domain.Raw("A-1")},
	})
	var dup *domain.DuplicateValueError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, domain.KeyAttributeShouldBeUnique, dup.Key)

	v2, _ := f.Mem.Value("v2")
	assert.Equal(t, "B-2", *v2.VarcharValue)
}

func TestUpdate_NotFound(t *testing.T) {
	f := pavtest.New()
	_, err := f.Update.Execute(context.Background(), &update_value.Request{ID: "missing", Input: &domain.Input{}})
	require.ErrorIs(t, err, domain.ErrValueNotFound)
}
