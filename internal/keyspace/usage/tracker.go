package usage

import (
	"github.com/google/uuid"
	"github.com/skybi/chainkv/internal/hashmap"
)

// Tracker counts the requests served per keyspace and hands them out in batches
type Tracker struct {
	requests *hashmap.LockedMap[uuid.UUID, int64]
	exists   func(id uuid.UUID) bool
}

// NewTracker creates a new keyspace usage tracker.
// exists reports whether a keyspace is still present; requests for missing keyspaces are not counted.
func NewTracker(exists func(id uuid.UUID) bool) *Tracker {
	requests, _ := hashmap.NewLocked[uuid.UUID, int64](hashmap.DefaultOptions())
	return &Tracker{
		requests: requests,
		exists:   exists,
	}
}

// Get returns the amount of requests accumulated for a specific keyspace since the last flush
func (tracker *Tracker) Get(id uuid.UUID) int64 {
	current, _ := tracker.requests.Get(id)
	return current
}

// Accumulate accumulates the request counter of a specific keyspace by 1.
// Nothing is counted if the keyspace no longer exists.
func (tracker *Tracker) Accumulate(id uuid.UUID) {
	tracker.requests.Manipulate(func(underlying *hashmap.ChainedMap[uuid.UUID, int64]) {
		if !tracker.exists(id) {
			return
		}
		current, _ := underlying.Get(id)
		underlying.Put(id, current+1)
	})
}

// Forget drops the counter of a specific keyspace.
// It has to be called after the keyspace was removed so that a concurrent Accumulate either finishes before it or
// no longer sees the keyspace.
func (tracker *Tracker) Forget(id uuid.UUID) {
	tracker.requests.Remove(id)
}

// Flush passes every accumulated counter to report and resets them.
// The amount of reported keyspaces is returned.
func (tracker *Tracker) Flush(report func(id uuid.UUID, requests int64)) int {
	amount := 0
	tracker.requests.Manipulate(func(underlying *hashmap.ChainedMap[uuid.UUID, int64]) {
		it := underlying.Iterator()
		for it.HasNext() {
			entry, err := it.Next()
			if err != nil {
				return
			}
			report(entry.Key(), entry.Value())
			_ = it.Remove()
			amount++
		}
	})
	return amount
}
