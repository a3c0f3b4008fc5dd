package hashmap

// TableStats describes the bucket table of a map at one point in time
type TableStats struct {
	Size     int
	Capacity int
	Load     float64
}

// Map represents the interface every map provided by this package has to implement
type Map[K comparable, V any] interface {
	// Size returns the amount of stored key-value pairs
	Size() int

	// ContainsKey returns whether a value is assigned to the given key
	ContainsKey(key K) bool

	// Get returns the value assigned to the given key and a boolean indicating whether the key is present.
	// A miss is never an error.
	Get(key K) (V, bool)

	// Put assigns a value to the given key and returns the previous value and whether there was one
	Put(key K, value V) (V, bool)

	// Remove deletes the value assigned to the given key and returns it and whether there was one
	Remove(key K) (V, bool)

	// Clear removes every key-value pair
	Clear()

	// Walk calls fn for every key-value pair in iteration order until fn returns false and reports the state of the
	// bucket table. fn may be nil. Neither fn nor the returned stats may be used to modify the map.
	Walk(fn func(key K, value V) bool) TableStats

	// Manipulate allows direct access to the underlying chained map (e.g. to iterate over it).
	// Thread safe implementations hold their lock while action runs.
	Manipulate(action func(underlying *ChainedMap[K, V]))
}
