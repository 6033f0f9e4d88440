package index

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInsertAndGet(t *testing.T) {
	idx := New()
	loc := Locator{Gen: 1, Offset: 0, Length: 10}

	_, existed := idx.Insert("key", loc)
	require.False(t, existed)

	got, ok := idx.Get("key")
	require.True(t, ok)
	require.Equal(t, loc, got)
}

func TestInsertReturnsPreviousLocator(t *testing.T) {
	idx := New()
	first := Locator{Gen: 1, Offset: 0, Length: 10}
	second := Locator{Gen: 1, Offset: 10, Length: 12}

	idx.Insert("key", first)
	prev, existed := idx.Insert("key", second)
	require.True(t, existed)
	require.Equal(t, first, prev)

	got, _ := idx.Get("key")
	require.Equal(t, second, got)
}

func TestRemoveDeletesEntry(t *testing.T) {
	idx := New()
	loc := Locator{Gen: 1, Offset: 0, Length: 10}
	idx.Insert("key", loc)

	removed, ok := idx.Remove("key")
	require.True(t, ok)
	require.Equal(t, loc, removed)

	_, ok = idx.Get("key")
	require.False(t, ok)
}

func TestRemoveMissingKeyReturnsFalse(t *testing.T) {
	idx := New()
	_, ok := idx.Remove("missing")
	require.False(t, ok)
}

func TestEachVisitsAllEntries(t *testing.T) {
	idx := New()
	idx.Insert("a", Locator{Gen: 1, Offset: 0, Length: 1})
	idx.Insert("b", Locator{Gen: 1, Offset: 1, Length: 1})

	seen := make(map[string]Locator)
	idx.Each(func(key string, loc Locator) { seen[key] = loc })
	require.Len(t, seen, 2)
	require.Equal(t, 2, idx.Len())
}
