package common

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// A repeating task executes its function right away when started
// and then once every interval, until it is stopped.
// A task can only be armed once at a time
type RepeatingTask struct {
	name     string
	interval time.Duration
	task     func(ctx context.Context)

	mutex  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRepeatingTask(name string, interval time.Duration, task func(ctx context.Context)) *RepeatingTask {
	return &RepeatingTask{name: name, interval: interval, task: task}
}

// Arm the task. Returns false if it was already armed
func (rt *RepeatingTask) Start(ctx context.Context) bool {
	rt.mutex.Lock()
	defer rt.mutex.Unlock()

	if rt.cancel != nil {
		return false
	}
	ctx, rt.cancel = context.WithCancel(ctx)
	rt.done = make(chan struct{})
	go rt.loop(ctx, rt.done)
	log.Info().Msgf("Task %s armed with interval %s", rt.name, rt.interval)
	return true
}

// Stop the task and wait for a running execution to return.
// Stopping a task that is not armed does nothing
func (rt *RepeatingTask) Stop() {
	rt.mutex.Lock()
	cancel, done := rt.cancel, rt.done
	rt.cancel, rt.done = nil, nil
	rt.mutex.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Info().Msgf("Task %s stopped", rt.name)
}

func (rt *RepeatingTask) Armed() bool {
	rt.mutex.Lock()
	defer rt.mutex.Unlock()
	return rt.cancel != nil
}

func (rt *RepeatingTask) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(rt.interval)
	defer ticker.Stop()

	rt.task(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rt.task(ctx)
		}
	}
}
