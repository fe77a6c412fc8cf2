package committer

import (
	"context"
	"testing"

	"cloud.google.com/go/spanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommitPlan(t *testing.T) {
	plan := NewPlan()
	assert.True(t, plan.IsEmpty())

	plan.Add(nil)
	assert.True(t, plan.IsEmpty())

	plan.Add(spanner.Delete("pseudo_transaction_jobs", spanner.Key{"job-1"}))
	plan.AddMultiple([]*spanner.Mutation{
		spanner.Delete("notes", spanner.Key{"note-1"}),
		nil,
	})
	assert.Equal(t, 2, plan.Count())
	assert.Len(t, plan.Mutations(), 2)
}

func TestScope(t *testing.T) {
	t.Run("ids are unique", func(t *testing.T) {
		assert.NotEqual(t, NewScope().ID(), NewScope().ID())
	})

	t.Run("sequence starts at one", func(t *testing.T) {
		s := NewScope()
		assert.Equal(t, int64(1), s.Next())
		assert.Equal(t, int64(2), s.Next())
	})

	t.Run("memo lives in the scope", func(t *testing.T) {
		s := NewScope()
		_, ok := s.Memo("parent-values:p1")
		assert.False(t, ok)

		s.SetMemo("parent-values:p1", 42)
		s.SetMemo("parent-values:p2", 43)
		s.SetMemo("attribute:a1", "color")

		v, ok := s.Memo("parent-values:p1")
		require.True(t, ok)
		assert.Equal(t, 42, v)

		s.ForgetMemo("parent-values:")
		_, ok = s.Memo("parent-values:p2")
		assert.False(t, ok)
		_, ok = s.Memo("attribute:a1")
		assert.True(t, ok)
	})
}

func TestScopeAfter(t *testing.T) {
	s := NewScope()
	var order []int
	s.After(func(context.Context) { order = append(order, 1) })
	s.After(func(context.Context) { order = append(order, 2) })

	s.RunAfter(context.Background())
	assert.Equal(t, []int{1, 2}, order)

	// callbacks run once
	s.RunAfter(context.Background())
	assert.Equal(t, []int{1, 2}, order)
}

func TestSpannerUnwrap(t *testing.T) {
	_, err := Spanner(NewScope())
	assert.Error(t, err)

	st := &SpannerTx{Scope: NewScope(), plan: NewPlan()}
	got, err := Spanner(st)
	require.NoError(t, err)
	assert.Same(t, st, got)

	assert.Error(t, st.Buffer(spanner.Delete("notes", spanner.Key{"n"})))
}
