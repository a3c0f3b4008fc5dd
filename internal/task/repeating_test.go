package task

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepeatingTaskRuns(t *testing.T) {
	var runs int32
	task := NewRepeating(func() {
		atomic.AddInt32(&runs, 1)
	}, 5*time.Millisecond)

	task.Start()
	require.True(t, task.Running())
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&runs) >= 2
	}, time.Second, time.Millisecond)

	task.Stop(false)
	assert.False(t, task.Running())
	stopped := atomic.LoadInt32(&runs)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, atomic.LoadInt32(&runs))
}

func TestRepeatingTaskStopForceExec(t *testing.T) {
	var runs int32
	task := NewRepeating(func() {
		atomic.AddInt32(&runs, 1)
	}, time.Hour)

	task.Start()
	task.Start()
	task.Stop(true)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))

	// Stopping a stopped task neither panics nor executes it
	task.Stop(true)
	assert.Equal(t, int32(1), atomic.LoadInt32(&runs))
}
