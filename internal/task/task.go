// Package task runs fixed-delay simulated work (payment processing, camera
// scans, receipt printing) with a cancellation token per pending task.
//
// Tasks are scheduled under a key. Scheduling a key that already has a
// pending task cancels that task first, so a new trigger supersedes the old
// one instead of racing it.
package task

import (
	"context"
	"sync"
	"time"
)

type Func func(ctx context.Context)

type Task struct {
	key    string
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

func (t *Task) Key() string { return t.key }

// Context is cancelled when the task is cancelled or superseded.
func (t *Task) Context() context.Context { return t.ctx }

// Done is closed once the task has finished running or was cancelled.
func (t *Task) Done() <-chan struct{} { return t.done }

func (t *Task) Cancel() { t.cancel() }

type Scheduler struct {
	mu      sync.Mutex
	pending map[string]*Task
	closed  bool
}

func NewScheduler() *Scheduler {
	return &Scheduler{pending: make(map[string]*Task)}
}

// Schedule runs fn after delay unless the task is cancelled first. fn gets the
// task context and must check ctx.Err() after acquiring any lock it needs,
// since cancellation can land between the timer firing and fn running.
// Schedule on a closed scheduler returns an already-cancelled task.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn Func) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{key: key, ctx: ctx, cancel: cancel, done: make(chan struct{})}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		cancel()
		close(t.done)
		return t
	}
	if prev, ok := s.pending[key]; ok {
		prev.cancel()
	}
	s.pending[key] = t
	s.mu.Unlock()

	go s.run(t, delay, fn)
	return t
}

func (s *Scheduler) run(t *Task, delay time.Duration, fn Func) {
	defer close(t.done)
	defer s.forget(t)

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-t.ctx.Done():
		return
	case <-timer.C:
	}

	if t.ctx.Err() != nil {
		return
	}
	fn(t.ctx)
}

func (s *Scheduler) forget(t *Task) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending[t.key] == t {
		delete(s.pending, t.key)
	}
	t.cancel()
}

// Cancel cancels the pending task under key, reporting whether there was one.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.pending[key]
	if !ok {
		return false
	}
	t.cancel()
	delete(s.pending, key)
	return true
}

func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.pending[key]
	return ok
}

func (s *Scheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, t := range s.pending {
		t.cancel()
		delete(s.pending, key)
	}
}

// Close cancels everything and rejects future tasks.
func (s *Scheduler) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.CancelAll()
}

// Wait blocks for d or until ctx is done.
func Wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
