package common

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRepeatingTaskRunsImmediately(t *testing.T) {
	executed := make(chan struct{}, 1)
	task := NewRepeatingTask("test", time.Hour, func(ctx context.Context) {
		executed <- struct{}{}
	})

	assert.True(t, task.Start(context.Background()))
	defer task.Stop()

	select {
	case <-executed:
	case <-time.After(time.Second):
		t.Fatal("task was not executed on start")
	}
}

func TestRepeatingTaskRepeatsUntilStopped(t *testing.T) {
	var runs atomic.Int32
	task := NewRepeatingTask("test", 5*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	})

	task.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)
	assert.True(t, task.Armed())

	task.Stop()
	assert.False(t, task.Armed())
	stopped := runs.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, runs.Load())
}

func TestRepeatingTaskArmsOnce(t *testing.T) {
	task := NewRepeatingTask("test", time.Hour, func(ctx context.Context) {})

	assert.True(t, task.Start(context.Background()))
	assert.False(t, task.Start(context.Background()))
	task.Stop()
	task.Stop()

	assert.True(t, task.Start(context.Background()))
	task.Stop()
}
