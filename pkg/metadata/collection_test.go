package metadata_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/opmodel/catalog/pkg/metadata"
)

func newComponentWithID(id string) *metadata.Component {
	cpt := metadata.NewComponent()
	cpt.ID = id
	return cpt
}

func TestComponentCollection_Add(t *testing.T) {
	t.Run("distinct identities all insert", func(t *testing.T) {
		cc := metadata.NewComponentCollection(metadata.CollectionOptions{})

		cpts := []*metadata.Component{
			newComponentWithID("org.example.Alpha"),
			newComponentWithID("org.example.Beta"),
			newComponentWithID("org.example.Gamma"),
		}
		for _, cpt := range cpts {
			require.NoError(t, cc.Add(cpt))
		}

		assert.Equal(t, 3, cc.Len())
		assert.False(t, cc.IsEmpty())
		for i, cpt := range cpts {
			assert.Same(t, cpt, cc.IndexSafe(i))
		}
	})

	t.Run("duplicate identity is rejected in checked mode", func(t *testing.T) {
		cc := metadata.NewComponentCollection(metadata.CollectionOptions{})

		require.NoError(t, cc.Add(newComponentWithID("org.example.App")))
		err := cc.Add(newComponentWithID("org.example.App"))
		require.Error(t, err)
		assert.ErrorIs(t, err, metadata.ErrIdentityConflict)
		assert.Contains(t, err.Error(), "org.example.App")
		assert.Equal(t, 1, cc.Len())
	})

	t.Run("duplicate identity is accepted in unchecked mode", func(t *testing.T) {
		cc := metadata.NewSimpleComponentCollection()

		first := newComponentWithID("org.example.App")
		second := newComponentWithID("org.example.App")
		require.NoError(t, cc.Add(first))
		require.NoError(t, cc.Add(second))

		assert.Equal(t, 2, cc.Len())
		assert.Same(t, first, cc.IndexSafe(0))
		assert.Same(t, second, cc.IndexSafe(1))
	})
}

func TestComponentCollection_IndexSafe(t *testing.T) {
	cc := metadata.NewComponentCollection(metadata.CollectionOptions{})
	require.NoError(t, cc.Add(newComponentWithID("org.example.App")))

	assert.NotNil(t, cc.IndexSafe(0))
	assert.Nil(t, cc.IndexSafe(1))
	assert.Nil(t, cc.IndexSafe(-1))
}

func TestComponentCollection_RemoveAt(t *testing.T) {
	t.Run("single element collection becomes empty", func(t *testing.T) {
		cc := metadata.NewComponentCollection(metadata.CollectionOptions{})
		require.NoError(t, cc.Add(newComponentWithID("org.example.App")))

		cc.RemoveAt(0)
		assert.Equal(t, 0, cc.Len())
		assert.Nil(t, cc.IndexSafe(0))

		// The identity is free again, so the index kept no stale entry.
		assert.NoError(t, cc.Add(newComponentWithID("org.example.App")))
	})

	t.Run("later entries shift down", func(t *testing.T) {
		cc := metadata.NewComponentCollection(metadata.CollectionOptions{})
		last := newComponentWithID("org.example.Gamma")
		require.NoError(t, cc.Add(newComponentWithID("org.example.Alpha")))
		require.NoError(t, cc.Add(newComponentWithID("org.example.Beta")))
		require.NoError(t, cc.Add(last))

		cc.RemoveAt(1)
		assert.Equal(t, 2, cc.Len())
		assert.Same(t, last, cc.IndexSafe(1))
		assert.Nil(t, cc.IndexSafe(2))
	})

	t.Run("out of range is ignored", func(t *testing.T) {
		cc := metadata.NewComponentCollection(metadata.CollectionOptions{})
		require.NoError(t, cc.Add(newComponentWithID("org.example.App")))

		cc.RemoveAt(5)
		cc.RemoveAt(-1)
		assert.Equal(t, 1, cc.Len())
	})

	t.Run("fallback scan removes the exact object on identity collision", func(t *testing.T) {
		cc := metadata.NewComponentCollection(metadata.CollectionOptions{})

		// Mutating a component's ID after insertion makes its indexed key go
		// stale, so a second object can take over the current identity.
		drifted := newComponentWithID("org.example.Old")
		require.NoError(t, cc.Add(drifted))
		drifted.ID = "org.example.New"

		current := newComponentWithID("org.example.New")
		require.NoError(t, cc.Add(current))

		// Removing the drifted object must not unhook the one legitimately
		// indexed under the shared identity string.
		cc.RemoveAt(0)
		assert.Equal(t, 1, cc.Len())
		assert.Same(t, current, cc.IndexSafe(0))

		// current is still indexed, its stale sibling key is gone.
		assert.ErrorIs(t, cc.Add(newComponentWithID("org.example.New")), metadata.ErrIdentityConflict)
		assert.NoError(t, cc.Add(newComponentWithID("org.example.Old")))
	})
}

func TestComponentCollection_Clear(t *testing.T) {
	cc := metadata.NewComponentCollection(metadata.CollectionOptions{})
	require.NoError(t, cc.Add(newComponentWithID("org.example.App")))

	cc.Clear()
	assert.True(t, cc.IsEmpty())
	assert.NoError(t, cc.Add(newComponentWithID("org.example.App")))
}

func TestComponentCollection_SortByID(t *testing.T) {
	cc := metadata.NewComponentCollection(metadata.CollectionOptions{})
	for _, id := range []string{"org.example.Cherry", "org.example.Apple", "org.example.Banana"} {
		require.NoError(t, cc.Add(newComponentWithID(id)))
	}

	cc.SortByID()

	assert.Equal(t, "org.example.Apple", cc.IndexSafe(0).ID)
	assert.Equal(t, "org.example.Banana", cc.IndexSafe(1).ID)
	assert.Equal(t, "org.example.Cherry", cc.IndexSafe(2).ID)
}

func TestComponentCollection_SortByScore(t *testing.T) {
	cc := metadata.NewComponentCollection(metadata.CollectionOptions{})
	low := newComponentWithID("org.example.Low")
	low.SortScore = 10
	high := newComponentWithID("org.example.High")
	high.SortScore = 80
	mid := newComponentWithID("org.example.Mid")
	mid.SortScore = 40
	for _, cpt := range []*metadata.Component{low, high, mid} {
		require.NoError(t, cc.Add(cpt))
	}

	cc.SortByScore()

	assert.Same(t, high, cc.IndexSafe(0))
	assert.Same(t, mid, cc.IndexSafe(1))
	assert.Same(t, low, cc.IndexSafe(2))
}

func TestComponentCollection_DataID(t *testing.T) {
	cpt := newComponentWithID("org.example.App")
	assert.Equal(t, "org.example.App", cpt.DataID())

	cpt.Origin = "debian-sid"
	assert.Equal(t, "debian-sid/org.example.App", cpt.DataID())
}

func TestComponentCollection_AddProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cc := metadata.NewComponentCollection(metadata.CollectionOptions{})

		n := rapid.IntRange(0, 32).Draw(t, "n")
		cpts := make([]*metadata.Component, 0, n)
		for i := 0; i < n; i++ {
			cpt := newComponentWithID(fmt.Sprintf("org.example.App%d", i))
			if err := cc.Add(cpt); err != nil {
				t.Fatalf("add failed: %v", err)
			}
			cpts = append(cpts, cpt)
		}

		if cc.Len() != n {
			t.Fatalf("len = %d, want %d", cc.Len(), n)
		}
		for i, cpt := range cpts {
			if cc.IndexSafe(i) != cpt {
				t.Fatalf("entry %d is not the inserted object", i)
			}
		}
	})
}
