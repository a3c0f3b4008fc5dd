package hashmap

import "sync"

// LockedMap implements the Map interface by wrapping a ChainedMap with a RWMutex mechanism in order to provide
// thread safety
type LockedMap[K comparable, V any] struct {
	mtx        sync.RWMutex
	underlying *ChainedMap[K, V]
}

var _ Map[int, any] = (*LockedMap[int, any])(nil)

// NewLocked creates a new thread safe Map using the given options
func NewLocked[K comparable, V any](opts *Options) (*LockedMap[K, V], error) {
	underlying, err := NewWithOptions[K, V](opts)
	if err != nil {
		return nil, err
	}
	return &LockedMap[K, V]{
		underlying: underlying,
	}, nil
}

// Size returns the amount of stored key-value pairs
func (obj *LockedMap[K, V]) Size() int {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	return obj.underlying.Size()
}

// ContainsKey returns whether a value is assigned to the given key
func (obj *LockedMap[K, V]) ContainsKey(key K) bool {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	return obj.underlying.ContainsKey(key)
}

// Get returns the value assigned to the given key and a boolean indicating whether the key is present
func (obj *LockedMap[K, V]) Get(key K) (V, bool) {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	return obj.underlying.Get(key)
}

// Put assigns a value to the given key and returns the previous value and whether there was one
func (obj *LockedMap[K, V]) Put(key K, value V) (V, bool) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	return obj.underlying.Put(key, value)
}

// Remove deletes the value assigned to the given key and returns it and whether there was one
func (obj *LockedMap[K, V]) Remove(key K) (V, bool) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	return obj.underlying.Remove(key)
}

// Clear removes every key-value pair
func (obj *LockedMap[K, V]) Clear() {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	obj.underlying.Clear()
}

// Walk calls fn for every key-value pair while holding the read lock.
// fn must not use the map itself.
func (obj *LockedMap[K, V]) Walk(fn func(key K, value V) bool) TableStats {
	obj.mtx.RLock()
	defer obj.mtx.RUnlock()
	return obj.underlying.Walk(fn)
}

// Manipulate allows a thread safe direct manipulation of the underlying map by wrapping the given function in a
// lock of the underlying mutex.
// The map must not be used after action returns.
func (obj *LockedMap[K, V]) Manipulate(action func(underlying *ChainedMap[K, V])) {
	obj.mtx.Lock()
	defer obj.mtx.Unlock()
	action(obj.underlying)
}
