package hashmap

// Iterator traverses the entries of a ChainedMap in ascending bucket order and chain order within a bucket.
// Modifying the map through anything but the iterator's own Remove while a traversal is in progress is undefined
// behaviour: entries may be skipped or produced twice.
type Iterator[K comparable, V any] struct {
	m *ChainedMap[K, V]

	// slot is the bucket next lives in
	slot int
	next *Entry[K, V]

	// current is the entry most recently returned by Next; nil once it has been removed
	current *Entry[K, V]
}

func newIterator[K comparable, V any](m *ChainedMap[K, V]) *Iterator[K, V] {
	it := &Iterator[K, V]{m: m, slot: -1}
	it.advanceBucket()
	return it
}

// HasNext returns whether another call to Next will produce an entry
func (it *Iterator[K, V]) HasNext() bool {
	return it.next != nil
}

// Next returns the next entry and advances the iterator.
// ErrNoMoreElements is returned once the iterator is exhausted.
func (it *Iterator[K, V]) Next() (*Entry[K, V], error) {
	if it.next == nil {
		return nil, ErrNoMoreElements
	}
	it.current = it.next

	// The successor is captured now because removing current unlinks it from its chain
	if it.next.next != nil {
		it.next = it.next.next
	} else {
		it.advanceBucket()
	}
	return it.current, nil
}

// Remove removes the entry most recently returned by Next from the underlying map.
// ErrIllegalIteratorState is returned if Next was not called since the iterator was created or since the last
// call to Remove.
func (it *Iterator[K, V]) Remove() error {
	if it.current == nil {
		return ErrIllegalIteratorState
	}
	it.m.Remove(it.current.key)
	it.current = nil
	return nil
}

// advanceBucket moves next to the head of the first non-empty bucket after slot
func (it *Iterator[K, V]) advanceBucket() {
	it.next = nil
	for it.slot+1 < len(it.m.buckets) {
		it.slot++
		if head := it.m.buckets[it.slot]; head != nil {
			it.next = head
			return
		}
	}
}

// EntryView is a live view on the entries of a ChainedMap.
// It never holds a copy; every call reflects the current state of the map.
type EntryView[K comparable, V any] struct {
	m *ChainedMap[K, V]
}

// Size returns the current amount of entries in the underlying map
func (view *EntryView[K, V]) Size() int {
	return view.m.size
}

// Iterator returns a new iterator over the underlying map
func (view *EntryView[K, V]) Iterator() *Iterator[K, V] {
	return newIterator(view.m)
}

// Contains returns whether the given entry is currently linked into the underlying map
func (view *EntryView[K, V]) Contains(entry *Entry[K, V]) bool {
	if entry == nil {
		return false
	}
	return view.m.find(entry.key) == entry
}

// Remove removes the entry with the given key from the underlying map and reports whether it was present
func (view *EntryView[K, V]) Remove(key K) bool {
	_, ok := view.m.Remove(key)
	return ok
}

// Clear removes every entry from the underlying map
func (view *EntryView[K, V]) Clear() {
	view.m.Clear()
}

// ForEach calls fn for every entry in iteration order until fn returns false
func (view *EntryView[K, V]) ForEach(fn func(entry *Entry[K, V]) bool) {
	view.m.ForEach(fn)
}
