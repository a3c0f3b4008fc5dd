package hashmap

import "github.com/rs/zerolog"

// Entry represents a single key-value pair stored in a ChainedMap.
// It is the chain node itself, so changes made using SetValue are visible through the map.
type Entry[K comparable, V any] struct {
	key   K
	value V
	next  *Entry[K, V]
}

// Key returns the key of the entry
func (entry *Entry[K, V]) Key() K {
	return entry.key
}

// Value returns the current value of the entry
func (entry *Entry[K, V]) Value() V {
	return entry.value
}

// SetValue replaces the value of the entry and returns the old one
func (entry *Entry[K, V]) SetValue(value V) V {
	old := entry.value
	entry.value = value
	return old
}

// ChainedMap implements the Map interface using a bucket table whose collisions are resolved by chaining.
// It is not safe for concurrent use; wrap it in a LockedMap if it has to be shared between goroutines.
type ChainedMap[K comparable, V any] struct {
	buckets    []*Entry[K, V]
	size       int
	loadFactor float64
	logger     zerolog.Logger
}

var _ Map[int, any] = (*ChainedMap[int, any])(nil)

// New creates a new empty map using the default options
func New[K comparable, V any]() *ChainedMap[K, V] {
	m, _ := NewWithOptions[K, V](DefaultOptions())
	return m
}

// NewWithOptions creates a new empty map using the given options.
// ErrInvalidArgument is returned if the options are not valid.
func NewWithOptions[K comparable, V any](opts *Options) (*ChainedMap[K, V], error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &ChainedMap[K, V]{
		buckets:    make([]*Entry[K, V], opts.InitialCapacity),
		loadFactor: opts.LoadFactorThreshold,
		logger:     opts.logger(),
	}, nil
}

// Size returns the amount of stored key-value pairs
func (obj *ChainedMap[K, V]) Size() int {
	return obj.size
}

// Capacity returns the current amount of buckets
func (obj *ChainedMap[K, V]) Capacity() int {
	return len(obj.buckets)
}

// Load returns the ratio of stored key-value pairs to buckets
func (obj *ChainedMap[K, V]) Load() float64 {
	return float64(obj.size) / float64(len(obj.buckets))
}

// Put assigns a value to the given key.
// If the key was already present, its previous value and true are returned.
func (obj *ChainedMap[K, V]) Put(key K, value V) (V, bool) {
	slot := indexFor(key, len(obj.buckets))

	head := obj.buckets[slot]
	if head == nil {
		obj.buckets[slot] = &Entry[K, V]{key: key, value: value}
	} else {
		tail := head
		for cur := head; cur != nil; cur = cur.next {
			if cur.key == key {
				return cur.SetValue(value), true
			}
			tail = cur
		}
		tail.next = &Entry[K, V]{key: key, value: value}
	}

	obj.size++
	if float64(obj.size) >= float64(len(obj.buckets))*obj.loadFactor {
		obj.resize()
	}

	var zero V
	return zero, false
}

// Get returns the value assigned to the given key and a boolean indicating whether the key is present
func (obj *ChainedMap[K, V]) Get(key K) (V, bool) {
	if entry := obj.find(key); entry != nil {
		return entry.value, true
	}
	var zero V
	return zero, false
}

// ContainsKey returns whether a value is assigned to the given key
func (obj *ChainedMap[K, V]) ContainsKey(key K) bool {
	return obj.find(key) != nil
}

// Remove deletes the value assigned to the given key.
// If the key was present, the removed value and true are returned.
func (obj *ChainedMap[K, V]) Remove(key K) (V, bool) {
	slot := indexFor(key, len(obj.buckets))

	var prev *Entry[K, V]
	for cur := obj.buckets[slot]; cur != nil; prev, cur = cur, cur.next {
		if cur.key != key {
			continue
		}
		if prev == nil {
			obj.buckets[slot] = cur.next
		} else {
			prev.next = cur.next
		}
		cur.next = nil
		obj.size--
		return cur.value, true
	}

	var zero V
	return zero, false
}

// Clear removes every key-value pair. The capacity is kept.
func (obj *ChainedMap[K, V]) Clear() {
	obj.buckets = make([]*Entry[K, V], len(obj.buckets))
	obj.size = 0
}

// Entries returns a live view on the entries of this map
func (obj *ChainedMap[K, V]) Entries() *EntryView[K, V] {
	return &EntryView[K, V]{m: obj}
}

// Iterator returns a new iterator positioned before the first entry of this map
func (obj *ChainedMap[K, V]) Iterator() *Iterator[K, V] {
	return newIterator(obj)
}

// ForEach calls fn for every entry in iteration order until fn returns false.
// fn must not modify the structure of the map; use an Iterator to remove entries while traversing.
func (obj *ChainedMap[K, V]) ForEach(fn func(entry *Entry[K, V]) bool) {
	for _, head := range obj.buckets {
		for cur := head; cur != nil; cur = cur.next {
			if !fn(cur) {
				return
			}
		}
	}
}

// Walk calls fn for every key-value pair in iteration order until fn returns false and reports the state of the
// bucket table. fn may be nil.
func (obj *ChainedMap[K, V]) Walk(fn func(key K, value V) bool) TableStats {
	if fn != nil {
		obj.ForEach(func(entry *Entry[K, V]) bool {
			return fn(entry.key, entry.value)
		})
	}
	return TableStats{
		Size:     obj.Size(),
		Capacity: obj.Capacity(),
		Load:     obj.Load(),
	}
}

// Manipulate calls action with the map itself; it exists to satisfy the Map interface
func (obj *ChainedMap[K, V]) Manipulate(action func(underlying *ChainedMap[K, V])) {
	action(obj)
}

func (obj *ChainedMap[K, V]) find(key K) *Entry[K, V] {
	for cur := obj.buckets[indexFor(key, len(obj.buckets))]; cur != nil; cur = cur.next {
		if cur.key == key {
			return cur
		}
	}
	return nil
}

// resize grows the bucket table until the load is below the threshold and relinks every entry into the bucket its
// key hashes to under the new capacity.
// Relative chain order is kept for entries that end up in the same bucket.
func (obj *ChainedMap[K, V]) resize() {
	oldCapacity := len(obj.buckets)
	newCapacity := oldCapacity * growthFactor
	for float64(obj.size) >= float64(newCapacity)*obj.loadFactor {
		newCapacity *= growthFactor
	}

	buckets := make([]*Entry[K, V], newCapacity)
	tails := make([]*Entry[K, V], newCapacity)
	for _, head := range obj.buckets {
		for cur := head; cur != nil; {
			next := cur.next
			cur.next = nil

			slot := indexFor(cur.key, newCapacity)
			if tails[slot] == nil {
				buckets[slot] = cur
			} else {
				tails[slot].next = cur
			}
			tails[slot] = cur

			cur = next
		}
	}
	obj.buckets = buckets

	obj.logger.Debug().
		Int("old_capacity", oldCapacity).
		Int("new_capacity", newCapacity).
		Int("size", obj.size).
		Msg("grew the bucket table")
}
