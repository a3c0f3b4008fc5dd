package hashmap

import (
	"time"

	"github.com/skybi/chainkv/internal/task"
)

type expiringEntry[T any] struct {
	raw      T
	inserted time.Time
}

// ExpiringMap implements the Map interface and wraps the standard LockedMap in order to implement value expiration
type ExpiringMap[K comparable, V any] struct {
	locked      *LockedMap[K, *expiringEntry[V]]
	opts        Options
	lifetime    time.Duration
	cleanupTask *task.RepeatingTask

	now func() time.Time
}

var _ Map[int, any] = (*ExpiringMap[int, any])(nil)

// NewExpiring creates a new expiring map whose values exist for a specific lifetime.
// Expired values are reported as missing right away but are not removed before ScheduleCleanupTask is called.
func NewExpiring[K comparable, V any](opts *Options, lifetime time.Duration) (*ExpiringMap[K, V], error) {
	locked, err := NewLocked[K, *expiringEntry[V]](opts)
	if err != nil {
		return nil, err
	}
	return &ExpiringMap[K, V]{
		locked:   locked,
		opts:     *opts,
		lifetime: lifetime,
		now:      time.Now,
	}, nil
}

// ScheduleCleanupTask schedules the task that cleans up expired values in a specific interval.
// A call to StopCleanupTask as soon as the map is no longer needed is highly recommended because it would not be
// garbage collected otherwise.
func (obj *ExpiringMap[K, V]) ScheduleCleanupTask(tick time.Duration) {
	if obj.cleanupTask != nil {
		return
	}
	obj.cleanupTask = task.NewRepeating(func() {
		obj.RemoveExpired()
	}, tick)
	obj.cleanupTask.Start()
}

// StopCleanupTask stops the cleanup task
func (obj *ExpiringMap[K, V]) StopCleanupTask() {
	if obj.cleanupTask == nil {
		return
	}
	obj.cleanupTask.Stop(true)
	obj.cleanupTask = nil
}

// RemoveExpired removes every expired value and returns the amount of removed values
func (obj *ExpiringMap[K, V]) RemoveExpired() int {
	removed := 0
	obj.locked.Manipulate(func(raw *ChainedMap[K, *expiringEntry[V]]) {
		it := raw.Iterator()
		for it.HasNext() {
			entry, err := it.Next()
			if err != nil {
				return
			}
			if obj.expired(entry.Value()) {
				if err := it.Remove(); err == nil {
					removed++
				}
			}
		}
	})
	return removed
}

// Size returns the amount of stored key-value pairs, including expired ones that were not cleaned up yet
func (obj *ExpiringMap[K, V]) Size() int {
	return obj.locked.Size()
}

// ContainsKey returns whether a non-expired value is assigned to the given key
func (obj *ExpiringMap[K, V]) ContainsKey(key K) bool {
	_, ok := obj.Get(key)
	return ok
}

// Get returns the value assigned to the given key and a boolean indicating whether it is present and not expired
func (obj *ExpiringMap[K, V]) Get(key K) (V, bool) {
	val, ok := obj.locked.Get(key)
	if !ok || obj.expired(val) {
		var zero V
		return zero, false
	}
	return val.raw, true
}

// Put assigns a value to the given key and resets its lifetime.
// An expired previous value is not reported.
func (obj *ExpiringMap[K, V]) Put(key K, value V) (V, bool) {
	old, ok := obj.locked.Put(key, &expiringEntry[V]{
		raw:      value,
		inserted: obj.now(),
	})
	if !ok || obj.expired(old) {
		var zero V
		return zero, false
	}
	return old.raw, true
}

// Remove deletes the value assigned to the given key.
// An expired value is removed as well but not reported.
func (obj *ExpiringMap[K, V]) Remove(key K) (V, bool) {
	old, ok := obj.locked.Remove(key)
	if !ok || obj.expired(old) {
		var zero V
		return zero, false
	}
	return old.raw, true
}

// Clear clears the whole map
func (obj *ExpiringMap[K, V]) Clear() {
	obj.locked.Clear()
}

// Walk calls fn for every non-expired key-value pair without rebuilding the map.
// The reported stats describe the raw bucket table, so expired values that were not cleaned up yet are counted.
func (obj *ExpiringMap[K, V]) Walk(fn func(key K, value V) bool) TableStats {
	if fn == nil {
		return obj.locked.Walk(nil)
	}
	return obj.locked.Walk(func(key K, value *expiringEntry[V]) bool {
		if obj.expired(value) {
			return true
		}
		return fn(key, value.raw)
	})
}

// Manipulate allows a thread safe direct manipulation of the underlying map by wrapping the given function in a
// lock of the underlying mutex.
// In this special case, this method is very expensive (the raw map has to be completely transformed 2 times).
// Avoid using this method whenever possible for expiring maps; Walk covers read-only access.
func (obj *ExpiringMap[K, V]) Manipulate(action func(underlying *ChainedMap[K, V])) {
	obj.locked.Manipulate(func(raw *ChainedMap[K, *expiringEntry[V]]) {
		transformed, err := NewWithOptions[K, V](&Options{
			InitialCapacity:     raw.Capacity(),
			LoadFactorThreshold: obj.opts.LoadFactorThreshold,
			Logger:              obj.opts.Logger,
		})
		if err != nil {
			return
		}
		raw.ForEach(func(entry *Entry[K, *expiringEntry[V]]) bool {
			if !obj.expired(entry.value) {
				transformed.Put(entry.key, entry.value.raw)
			}
			return true
		})

		action(transformed)

		it := raw.Iterator()
		for it.HasNext() {
			entry, err := it.Next()
			if err != nil {
				return
			}
			if !transformed.ContainsKey(entry.key) {
				_ = it.Remove()
			}
		}
		now := obj.now()
		transformed.ForEach(func(entry *Entry[K, V]) bool {
			inserted := now
			if old, ok := raw.Get(entry.key); ok && !obj.expired(old) {
				inserted = old.inserted
			}
			raw.Put(entry.key, &expiringEntry[V]{
				raw:      entry.value,
				inserted: inserted,
			})
			return true
		})
	})
}

func (obj *ExpiringMap[K, V]) expired(entry *expiringEntry[V]) bool {
	return obj.now().Sub(entry.inserted) > obj.lifetime
}
