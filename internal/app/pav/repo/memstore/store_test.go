package memstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/pav-service/internal/app/pav/contracts"
	"github.com/light-bringer/pav-service/internal/app/pav/domain"
	"github.com/light-bringer/pav-service/internal/pkg/committer"
)

func newValue(id, product string) *domain.Value {
	return &domain.Value{
		ID:            id,
		ProductID:     product,
		AttributeID:   "color",
		Scope:         domain.ScopeGlobal,
		Language:      domain.LanguageMain,
		AttributeType: domain.TypeVarchar,
		VarcharValue:  domain.Ptr("red"),
	}
}

func TestStore_RollbackRestoresState(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutProduct(&domain.Product{ID: "p1"})
	s.PutValue(newValue("v0", "p1"))
	values := s.ValueRepo()

	boom := errors.New("boom")
	err := s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		v := newValue("v0", "p1")
		v.VarcharValue = domain.Ptr("blue")
		require.NoError(t, values.Update(ctx, tx, v))
		require.NoError(t, values.Insert(ctx, tx, &domain.Value{ID: "v1", ProductID: "p1", AttributeID: "size", Scope: domain.ScopeGlobal, Language: domain.LanguageMain}))
		require.NoError(t, s.NoteSink().Create(ctx, tx, &domain.Note{ID: "n1"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, ok := s.Value("v0")
	require.True(t, ok)
	assert.Equal(t, "red", *v.VarcharValue)
	_, ok = s.Value("v1")
	assert.False(t, ok)
	assert.Empty(t, s.Notes())
}

func TestStore_NestedJoinsParent(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.Do(ctx, nil, func(ctx context.Context, outer committer.Tx) error {
		return s.Do(ctx, outer, func(ctx context.Context, inner committer.Tx) error {
			assert.Same(t, outer, inner)
			return nil
		})
	})
	require.NoError(t, err)
}

func TestStore_AfterRunsOnRollback(t *testing.T) {
	ctx := context.Background()
	s := New()
	ran := false

	_ = s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		tx.After(func(context.Context) { ran = true })
		return errors.New("fail")
	})
	assert.True(t, ran)
}

func TestValueRepo_CompositeKey(t *testing.T) {
	ctx := context.Background()
	s := New()
	values := s.ValueRepo()

	err := s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		require.NoError(t, values.Insert(ctx, tx, newValue("v1", "p1")))
		err := values.Insert(ctx, tx, newValue("v2", "p1"))
		assert.ErrorIs(t, err, contracts.ErrUniqueViolation)

		// another language is a different key
		other := newValue("v3", "p1")
		other.Language = "de_DE"
		require.NoError(t, values.Insert(ctx, tx, other))

		// a deleted row frees the key
		require.NoError(t, values.SoftDelete(ctx, tx, "v1", time.Now(), "u1"))
		return values.Insert(ctx, tx, newValue("v4", "p1"))
	})
	require.NoError(t, err)
	assert.Len(t, s.LiveValues(), 2)
}

func TestValueRepo_FindDuplicate(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutProduct(&domain.Product{ID: "p1"})
	s.PutProduct(&domain.Product{ID: "p2"})
	s.PutProduct(&domain.Product{ID: "gone", Deleted: true})
	s.PutValue(newValue("v1", "p1"))
	gone := newValue("v9", "gone")
	gone.VarcharValue = domain.Ptr("green")
	s.PutValue(gone)

	values := s.ValueRepo()
	err := s.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		dup, err := values.FindDuplicate(ctx, tx, newValue("v2", "p2"))
		require.NoError(t, err)
		assert.True(t, dup)

		self, err := values.FindDuplicate(ctx, tx, newValue("v1", "p1"))
		require.NoError(t, err)
		assert.False(t, self)

		onDeletedProduct := newValue("v2", "p2")
		onDeletedProduct.VarcharValue = domain.Ptr("green")
		dup, err = values.FindDuplicate(ctx, tx, onDeletedProduct)
		require.NoError(t, err)
		assert.False(t, dup)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_FailOn(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("queue down")
	s.FailOn("jobs.Insert", 1, boom)
	jobs := s.JobRepo()

	err := s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		require.NoError(t, jobs.Insert(ctx, tx, &domain.Job{ID: "j1"}))
		return jobs.Insert(ctx, tx, &domain.Job{ID: "j2"})
	})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, s.Jobs())
}

func TestStore_ReadOnlyViewRejectsWrites(t *testing.T) {
	ctx := context.Background()
	s := New()

	err := s.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		return s.ValueRepo().Insert(ctx, tx, newValue("v1", "p1"))
	})
	assert.Error(t, err)
}

func TestHierarchyRepo_Children(t *testing.T) {
	ctx := context.Background()
	s := New()
	for _, id := range []string{"p", "c1", "c2", "c3"} {
		s.PutProduct(&domain.Product{ID: id, Name: "Product " + id})
	}
	s.PutProduct(&domain.Product{ID: "dead", Deleted: true})
	s.Link("p", "c1", false)
	s.Link("p", "c2", true)
	s.Link("p", "dead", false)
	s.Link("c1", "c3", false)

	err := s.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		children, err := s.HierarchyRepo().Children(ctx, tx, "p")
		require.NoError(t, err)
		require.Len(t, children, 2)
		assert.Equal(t, "c1", children[0].ID)
		assert.Equal(t, int64(1), children[0].ChildrenCount)
		assert.Equal(t, "c2", children[1].ID)

		parents, err := s.HierarchyRepo().ParentIDs(ctx, tx, "c3")
		require.NoError(t, err)
		assert.Equal(t, []string{"c1"}, parents)
		return nil
	})
	require.NoError(t, err)
}

func TestStore_ConcurrentUnitsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutProduct(&domain.Product{ID: "p1"})
	s.PutValue(newValue("v0", "p1"))
	values := s.ValueRepo()

	seen := make(chan string, 1)
	other := make(chan error, 1)
	err := s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		v := newValue("v0", "p1")
		v.VarcharValue = domain.Ptr("uncommitted")
		require.NoError(t, values.Update(ctx, tx, v))

		go func() {
			other <- s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
				cur, err := values.GetByID(ctx, tx, "v0")
				if err != nil {
					return err
				}
				seen <- *cur.VarcharValue
				next := cur.Clone()
				next.VarcharValue = domain.Ptr("committed")
				return values.Update(ctx, tx, next)
			})
		}()

		select {
		case err := <-other:
			t.Fatalf("second unit of work finished while the first was open: %v", err)
		case <-time.After(50 * time.Millisecond):
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	require.NoError(t, <-other)
	assert.Equal(t, "red", <-seen)
	v, ok := s.Value("v0")
	require.True(t, ok)
	assert.Equal(t, "committed", *v.VarcharValue)
}

func TestStore_ConcurrentFailuresKeepCommittedWrites(t *testing.T) {
	ctx := context.Background()
	s := New()
	jobs := s.JobRepo()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
				if err := jobs.Insert(ctx, tx, &domain.Job{ID: fmt.Sprintf("j%d", i)}); err != nil {
					return err
				}
				if i%2 == 1 {
					return errors.New("fail")
				}
				return nil
			})
			_ = s.View(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
				_, err := jobs.ListPending(ctx, tx, 0)
				return err
			})
		}(i)
	}
	wg.Wait()

	got := s.Jobs()
	require.Len(t, got, 8)
	for _, j := range got {
		var n int
		_, err := fmt.Sscanf(j.ID, "j%d", &n)
		require.NoError(t, err)
		assert.Zero(t, n%2, j.ID)
	}
}

func TestStore_PanicRollsBackAndReleases(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutProduct(&domain.Product{ID: "p1"})
	s.PutValue(newValue("v0", "p1"))

	assert.PanicsWithValue(t, "boom", func() {
		_ = s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
			v := newValue("v0", "p1")
			v.VarcharValue = domain.Ptr("blue")
			require.NoError(t, s.ValueRepo().Update(ctx, tx, v))
			panic("boom")
		})
	})

	v, ok := s.Value("v0")
	require.True(t, ok)
	assert.Equal(t, "red", *v.VarcharValue)
	require.NoError(t, s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error { return nil }))
}

func TestProductRepo_ClearImage(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.PutProduct(&domain.Product{ID: "p1", ImageID: "f1"})
	s.PutProduct(&domain.Product{ID: "p2"})
	s.PutProduct(&domain.Product{ID: "p3", ImageID: "f2"})
	products := s.ProductRepo()

	err := s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		n, err := products.ClearImage(ctx, tx, "")
		require.NoError(t, err)
		assert.Zero(t, n)

		n, err = products.ClearImage(ctx, tx, "f1")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		return nil
	})
	require.NoError(t, err)

	p1, _ := s.Product("p1")
	assert.Empty(t, p1.ImageID)
	p3, _ := s.Product("p3")
	assert.Equal(t, "f2", p3.ImageID)

	s.FailOn("products.ClearImage", 0, errors.New("down"))
	err = s.Do(ctx, nil, func(ctx context.Context, tx committer.Tx) error {
		_, err := products.ClearImage(ctx, tx, "f2")
		return err
	})
	require.Error(t, err)
	p3, _ = s.Product("p3")
	assert.Equal(t, "f2", p3.ImageID)
}
