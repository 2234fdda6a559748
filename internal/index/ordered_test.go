package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOrderedIndex_InsertSearch(t *testing.T) {
	idx := NewOrderedIndex[string]()
	for _, k := range []int64{50, 30, 70, 20, 40, 60, 80} {
		idx.Insert(k, "v")
	}
	idx.Insert(45, "forty-five")

	v, ok := idx.Search(45)
	require.True(t, ok)
	require.Equal(t, "forty-five", v)

	_, ok = idx.Search(99)
	require.False(t, ok)
	require.Equal(t, 8, idx.Len())
	require.Equal(t, 4, idx.Height())
}

func TestOrderedIndex_DuplicateKeepsFirst(t *testing.T) {
	idx := NewOrderedIndex[string]()
	idx.Insert(7, "first")
	idx.Insert(7, "second")

	v, ok := idx.Search(7)
	require.True(t, ok)
	require.Equal(t, "first", v)
	require.Equal(t, 1, idx.Len())
}

func TestOrderedIndex_SortedInsertDegenerates(t *testing.T) {
	idx := NewOrderedIndex[int]()
	for k := int64(1); k <= 100; k++ {
		idx.Insert(k, int(k))
	}

	require.Equal(t, 100, idx.Height())
	for k := int64(1); k <= 100; k++ {
		v, ok := idx.Search(k)
		require.True(t, ok)
		require.Equal(t, int(k), v)
	}
}

func TestOrderedIndex_Clear(t *testing.T) {
	idx := NewOrderedIndex[*int]()
	n := 3
	idx.Insert(1, &n)
	idx.Clear()

	_, ok := idx.Search(1)
	require.False(t, ok)
	require.Equal(t, 0, idx.Len())
	require.Equal(t, 0, idx.Height())

	idx.Insert(2, &n)
	v, ok := idx.Search(2)
	require.True(t, ok)
	require.Same(t, &n, v)
}

func TestOrderedIndex_Empty(t *testing.T) {
	idx := NewOrderedIndex[string]()
	v, ok := idx.Search(1)
	require.False(t, ok)
	require.Empty(t, v)
}
