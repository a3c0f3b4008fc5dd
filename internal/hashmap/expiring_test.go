package hashmap

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced time source
type fakeClock struct {
	mtx sync.Mutex
	now time.Time
}

func (clock *fakeClock) Now() time.Time {
	clock.mtx.Lock()
	defer clock.mtx.Unlock()
	return clock.now
}

func (clock *fakeClock) Advance(d time.Duration) {
	clock.mtx.Lock()
	defer clock.mtx.Unlock()
	clock.now = clock.now.Add(d)
}

func newExpiringWithClock(t *testing.T, lifetime time.Duration) (*ExpiringMap[string, int], *fakeClock) {
	t.Helper()
	m, err := NewExpiring[string, int](DefaultOptions(), lifetime)
	require.NoError(t, err)
	clock := &fakeClock{now: time.Unix(1_000_000, 0)}
	m.now = clock.Now
	return m, clock
}

func TestExpiringMapHidesExpiredValues(t *testing.T) {
	m, clock := newExpiringWithClock(t, time.Minute)
	m.Put("a", 1)
	clock.Advance(30 * time.Second)
	m.Put("b", 2)

	assert.True(t, m.ContainsKey("a"))
	clock.Advance(31 * time.Second)

	_, ok := m.Get("a")
	assert.False(t, ok)
	assert.True(t, m.ContainsKey("b"))
	// Not cleaned up yet
	assert.Equal(t, 2, m.Size())

	_, replaced := m.Put("a", 3)
	assert.False(t, replaced)
	val, ok := m.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 3, val)
}

func TestExpiringMapRemoveExpired(t *testing.T) {
	m, clock := newExpiringWithClock(t, time.Minute)
	for i, key := range []string{"a", "b", "c", "d"} {
		m.Put(key, i)
		clock.Advance(20 * time.Second)
	}

	// a was inserted 80s ago, b 60s ago, c 40s ago, d 20s ago
	assert.Equal(t, 1, m.RemoveExpired())
	assert.Equal(t, 3, m.Size())
	clock.Advance(time.Second)
	assert.Equal(t, 1, m.RemoveExpired())
	assert.Equal(t, 2, m.Size())

	_, removed := m.Remove("b")
	assert.False(t, removed)
	old, removed := m.Remove("c")
	assert.True(t, removed)
	assert.Equal(t, 2, old)
}

func TestExpiringMapCleanupTask(t *testing.T) {
	m, err := NewExpiring[string, int](DefaultOptions(), 5*time.Millisecond)
	require.NoError(t, err)
	m.Put("a", 1)
	m.Put("b", 2)

	m.ScheduleCleanupTask(2 * time.Millisecond)
	defer m.StopCleanupTask()
	require.Eventually(t, func() bool {
		return m.Size() == 0
	}, time.Second, time.Millisecond)
}

func TestExpiringMapManipulateKeepsInsertionTime(t *testing.T) {
	m, clock := newExpiringWithClock(t, time.Minute)
	m.Put("old", 1)
	clock.Advance(50 * time.Second)

	m.Manipulate(func(underlying *ChainedMap[string, int]) {
		underlying.Put("old", 10)
		underlying.Put("new", 2)
	})
	val, ok := m.Get("old")
	require.True(t, ok)
	assert.Equal(t, 10, val)

	clock.Advance(20 * time.Second)
	assert.False(t, m.ContainsKey("old"))
	assert.True(t, m.ContainsKey("new"))

	m.Manipulate(func(underlying *ChainedMap[string, int]) {
		// Expired values are not visible here
		assert.False(t, underlying.ContainsKey("old"))
		underlying.Remove("new")
	})
	assert.Equal(t, 0, m.Size())
}

func TestExpiringMapWalkSkipsExpiredValues(t *testing.T) {
	m, clock := newExpiringWithClock(t, time.Minute)
	m.Put("old", 1)
	clock.Advance(50 * time.Second)
	m.Put("new", 2)
	clock.Advance(20 * time.Second)

	seen := map[string]int{}
	stats := m.Walk(func(key string, value int) bool {
		seen[key] = value
		return true
	})
	assert.Equal(t, map[string]int{"new": 2}, seen)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, DefaultInitialCapacity, stats.Capacity)

	// Walking neither evicts nor refreshes anything
	assert.Equal(t, 2, m.Size())
	clock.Advance(50 * time.Second)
	assert.False(t, m.ContainsKey("new"))
	assert.Empty(t, collectKeys(m))
}

func collectKeys(m *ExpiringMap[string, int]) []string {
	var keys []string
	m.Walk(func(key string, _ int) bool {
		keys = append(keys, key)
		return true
	})
	return keys
}
