package flux

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// ErrLoopStopped is returned when work is posted to a loop that has exited.
var ErrLoopStopped = errors.New("flux: loop stopped")

const defaultLoopBuffer = 64

type task struct {
	run  func()
	drop func()
}

// Loop runs posted tasks one at a time on the goroutine that called Run. All
// dispatches go through it, so store handlers never run concurrently.
//
// Every accepted task is either run or, if the loop stops first, dropped: its
// drop func is called before Done is closed.
type Loop struct {
	tasks    chan task
	stopping chan struct{}
	done     chan struct{}
	started  atomic.Bool

	// mu guards stopped. Submitters hold it shared while enqueueing so the
	// shutdown drain sees every task that made it into the queue.
	mu      sync.RWMutex
	stopped bool
}

// NewLoop returns a loop whose queue holds up to buffer pending tasks before
// Post blocks.
func NewLoop(buffer int) *Loop {
	if buffer <= 0 {
		buffer = defaultLoopBuffer
	}
	return &Loop{
		tasks:    make(chan task, buffer),
		stopping: make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Post queues fn. It is safe to call from any goroutine and reports false when
// the loop has already stopped.
func (l *Loop) Post(fn func()) bool {
	return l.Submit(fn, nil)
}

// Submit queues run like Post. If the loop stops before run gets its turn,
// drop is called instead, on the goroutine that called Run. A false return
// means neither will be called.
func (l *Loop) Submit(run, drop func()) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.stopped {
		return false
	}
	select {
	case <-l.stopping:
		return false
	case l.tasks <- task{run: run, drop: drop}:
		return true
	}
}

// Call runs fn on the loop and waits for it to finish.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	dropped := make(chan struct{})
	if !l.Submit(func() {
		defer close(finished)
		fn()
	}, func() { close(dropped) }) {
		return ErrLoopStopped
	}
	select {
	case <-finished:
		return nil
	case <-dropped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes tasks until ctx is cancelled. A loop can only run once.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return errors.New("flux: loop already running")
	}
	defer l.shutdown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-l.tasks:
			if ctx.Err() != nil {
				t.dropped()
				return ctx.Err()
			}
			t.run()
		}
	}
}

// shutdown refuses new work, then drops whatever is still queued.
func (l *Loop) shutdown() {
	close(l.stopping)
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()

	for {
		select {
		case t := <-l.tasks:
			t.dropped()
		default:
			close(l.done)
			return
		}
	}
}

func (t task) dropped() {
	if t.drop != nil {
		t.drop()
	}
}

// Done is closed once Run has returned and every queued task was dropped.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
