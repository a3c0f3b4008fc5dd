package keyspace

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/skybi/chainkv/internal/hashmap"
)

// Keyspace represents an isolated string to string map
type Keyspace struct {
	ID      uuid.UUID
	Created time.Time

	entries  hashmap.Map[string, string]
	expiring *hashmap.ExpiringMap[string, string]
}

// Stats represents the state of the bucket table backing a keyspace
type Stats struct {
	ID       uuid.UUID `json:"id"`
	Created  int64     `json:"created"`
	Size     int       `json:"size"`
	Capacity int       `json:"capacity"`
	Load     float64   `json:"load"`
}

var _ zerolog.LogObjectMarshaler = (*Stats)(nil)

// MarshalZerologObject allows logging keyspace stats as a zerolog object
func (stats *Stats) MarshalZerologObject(event *zerolog.Event) {
	event.Str("id", stats.ID.String()).
		Int("size", stats.Size).
		Int("capacity", stats.Capacity).
		Float64("load", stats.Load)
}

// Entry represents a single key-value pair of a keyspace
type Entry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Put assigns a value to a key and returns the previous value and whether there was one
func (space *Keyspace) Put(key, value string) (string, bool) {
	return space.entries.Put(key, value)
}

// Get returns the value assigned to a key and whether there is one
func (space *Keyspace) Get(key string) (string, bool) {
	return space.entries.Get(key)
}

// Has returns whether a value is assigned to a key
func (space *Keyspace) Has(key string) bool {
	return space.entries.ContainsKey(key)
}

// Remove deletes the value assigned to a key and returns it and whether there was one
func (space *Keyspace) Remove(key string) (string, bool) {
	return space.entries.Remove(key)
}

// Stats returns the current state of the bucket table backing the keyspace.
// Expired entries that were not cleaned up yet are counted.
func (space *Keyspace) Stats() *Stats {
	table := space.entries.Walk(nil)
	return &Stats{
		ID:       space.ID,
		Created:  space.Created.Unix(),
		Size:     table.Size,
		Capacity: table.Capacity,
		Load:     table.Load,
	}
}

// Page returns up to limit entries starting at offset in iteration order and the total amount of entries.
// The order is only stable as long as the keyspace is not modified.
func (space *Keyspace) Page(offset, limit uint64) ([]*Entry, uint64) {
	var (
		page  []*Entry
		total uint64
	)
	space.entries.Walk(func(key, value string) bool {
		if total >= offset && uint64(len(page)) < limit {
			page = append(page, &Entry{Key: key, Value: value})
		}
		total++
		return true
	})
	if page == nil {
		page = []*Entry{}
	}
	return page, total
}

// Close stops the background tasks of the keyspace
func (space *Keyspace) Close() {
	if space.expiring != nil {
		space.expiring.StopCleanupTask()
	}
}
