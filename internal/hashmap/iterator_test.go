package hashmap

import (
	"errors"
	"sort"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain[K comparable, V any](t *testing.T, it *Iterator[K, V]) []K {
	t.Helper()
	var keys []K
	for it.HasNext() {
		entry, err := it.Next()
		require.NoError(t, err)
		keys = append(keys, entry.Key())
	}
	return keys
}

func TestIteratorOrder(t *testing.T) {
	m := mustNew[codedKey, int](t, 8, 1)
	keys := []codedKey{{"c1", 3}, {"b", 1}, {"c2", 3}, {"a", 0}, {"g", 6}, {"c3", 11}}
	for i, key := range keys {
		m.Put(key, i)
	}

	var names []string
	for _, key := range drain(t, m.Iterator()) {
		names = append(names, key.name)
	}
	// Ascending bucket index, then insertion order within a bucket
	assert.Equal(t, []string{"a", "b", "c1", "c2", "c3", "g"}, names)
}

func TestIteratorExhaustion(t *testing.T) {
	for _, n := range []int{0, 1, 2, 17, 300} {
		t.Run(strconv.Itoa(n), func(t *testing.T) {
			m := New[int, int]()
			for i := 0; i < n; i++ {
				m.Put(i, i)
			}

			it := m.Iterator()
			for i := 0; i < n; i++ {
				require.True(t, it.HasNext())
				_, err := it.Next()
				require.NoError(t, err)
			}
			assert.False(t, it.HasNext())

			entry, err := it.Next()
			assert.Nil(t, entry)
			assert.True(t, errors.Is(err, ErrNoMoreElements))

			// Still exhausted on repeated calls
			_, err = it.Next()
			assert.True(t, errors.Is(err, ErrNoMoreElements))
		})
	}
}

func TestIteratorProducesEveryEntryOnce(t *testing.T) {
	m := mustNew[string, int](t, 2, 0.75)
	want := make([]string, 0, 1_000)
	for i := 0; i < 1_000; i++ {
		key := "k" + strconv.Itoa(i)
		m.Put(key, i)
		want = append(want, key)
	}

	got := drain(t, m.Iterator())
	sort.Strings(got)
	sort.Strings(want)
	assert.Equal(t, want, got)
}

func TestIteratorsAreIndependent(t *testing.T) {
	m := New[int, int]()
	m.Put(1, 1)
	m.Put(2, 2)

	first := m.Iterator()
	_, err := first.Next()
	require.NoError(t, err)

	assert.Len(t, drain(t, m.Iterator()), 2)
	assert.Len(t, drain(t, first), 1)
}

func TestIteratorRemoveState(t *testing.T) {
	m := New[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)

	it := m.Iterator()
	assert.True(t, errors.Is(it.Remove(), ErrIllegalIteratorState))

	_, err := it.Next()
	require.NoError(t, err)
	require.NoError(t, it.Remove())
	assert.Equal(t, 1, m.Size())

	assert.True(t, errors.Is(it.Remove(), ErrIllegalIteratorState))
	assert.Equal(t, 1, m.Size())

	// The map stays usable after a contract violation
	require.True(t, it.HasNext())
	_, err = it.Next()
	require.NoError(t, err)
	require.NoError(t, it.Remove())
	assert.Equal(t, 0, m.Size())
}

func TestIteratorRemoveWhileTraversing(t *testing.T) {
	m := mustNew[int, int](t, 4, 0.75)
	for i := 0; i < 200; i++ {
		m.Put(i, i)
	}

	it := m.Iterator()
	visited := 0
	for it.HasNext() {
		entry, err := it.Next()
		require.NoError(t, err)
		visited++
		if entry.Key()%2 == 0 {
			before := m.Size()
			require.NoError(t, it.Remove())
			require.Equal(t, before-1, m.Size())
			require.False(t, m.ContainsKey(entry.Key()))
		}
	}
	assert.Equal(t, 200, visited)
	assert.Equal(t, 100, m.Size())

	for _, key := range drain(t, m.Iterator()) {
		assert.Equal(t, 1, key%2)
	}
}

func TestIteratorRemoveInsideChain(t *testing.T) {
	m := mustNew[codedKey, int](t, 4, 1)
	head, middle, tail := codedKey{"head", 2}, codedKey{"middle", 2}, codedKey{"tail", 2}
	m.Put(head, 1)
	m.Put(middle, 2)
	m.Put(tail, 3)

	it := m.Iterator()
	entry, err := it.Next()
	require.NoError(t, err)
	require.Equal(t, head, entry.Key())

	entry, err = it.Next()
	require.NoError(t, err)
	require.Equal(t, middle, entry.Key())
	require.NoError(t, it.Remove())

	entry, err = it.Next()
	require.NoError(t, err)
	assert.Equal(t, tail, entry.Key())
	assert.False(t, it.HasNext())

	assert.Equal(t, []codedKey{head, tail}, drain(t, m.Iterator()))
}

func TestIteratorRemoveEverything(t *testing.T) {
	m := mustNew[codedKey, int](t, 4, 1)
	m.Put(codedKey{"a", 0}, 0)
	m.Put(codedKey{"b", 3}, 1)
	m.Put(codedKey{"c", 3}, 2)

	it := m.Iterator()
	for it.HasNext() {
		_, err := it.Next()
		require.NoError(t, err)
		require.NoError(t, it.Remove())
	}

	// Removing the last entry of the final chain ends the traversal
	assert.Equal(t, 0, m.Size())
	assert.False(t, it.HasNext())
	_, err := it.Next()
	assert.True(t, errors.Is(err, ErrNoMoreElements))
	assert.True(t, errors.Is(it.Remove(), ErrIllegalIteratorState))
}

func TestEntryView(t *testing.T) {
	m := New[string, string]()
	m.Put("1", "1")
	m.Put("2", "2")

	view := m.Entries()
	assert.Equal(t, 2, view.Size())

	m.Put("3", "3")
	assert.Equal(t, 3, view.Size())

	entry := m.find("2")
	require.NotNil(t, entry)
	assert.True(t, view.Contains(entry))
	assert.False(t, view.Contains(nil))
	assert.False(t, view.Contains(&Entry[string, string]{key: "2", value: "2"}))

	assert.True(t, view.Remove("2"))
	assert.False(t, view.Remove("2"))
	assert.False(t, view.Contains(entry))
	assert.False(t, m.ContainsKey("2"))
	assert.Equal(t, 2, view.Size())

	it := view.Iterator()
	_, err := it.Next()
	require.NoError(t, err)
	require.NoError(t, it.Remove())
	assert.Equal(t, 1, m.Size())
	assert.Equal(t, 1, view.Size())

	view.Clear()
	assert.Equal(t, 0, m.Size())
	assert.Equal(t, 0, view.Size())
}

func TestEntrySetValueWritesThrough(t *testing.T) {
	m := New[string, int]()
	m.Put("a", 1)
	m.Put("b", 2)

	m.Entries().ForEach(func(entry *Entry[string, int]) bool {
		entry.SetValue(entry.Value() * 10)
		return true
	})

	a, _ := m.Get("a")
	b, _ := m.Get("b")
	assert.Equal(t, 10, a)
	assert.Equal(t, 20, b)

	it := m.Iterator()
	entry, err := it.Next()
	require.NoError(t, err)
	old := entry.SetValue(-1)
	val, _ := m.Get(entry.Key())
	assert.Equal(t, -1, val)
	assert.Contains(t, []int{10, 20}, old)
}

func TestForEachStops(t *testing.T) {
	m := New[int, int]()
	for i := 0; i < 10; i++ {
		m.Put(i, i)
	}
	calls := 0
	m.ForEach(func(*Entry[int, int]) bool {
		calls++
		return calls < 3
	})
	assert.Equal(t, 3, calls)
}
