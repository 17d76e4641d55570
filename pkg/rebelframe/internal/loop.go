package internal

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/atomic"
)

// ErrLoopRunning is returned by Run when the loop is already being run.
var ErrLoopRunning = errors.New("event loop already running")

// Loop serializes work onto a single goroutine. Anything that touches
// navigation state from outside the UI goroutine (input listeners, platform
// callbacks) posts a function here instead of calling in directly.
type Loop struct {
	mu      sync.Mutex
	pending []func()
	wake    chan struct{}
	running atomic.Bool
}

func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the loop goroutine. Safe from any goroutine,
// including from a function already running on the loop.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.pending = append(l.pending, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Drain runs queued functions on the calling goroutine until the queue is
// empty, including functions queued while draining. It returns how many ran.
func (l *Loop) Drain() int {
	ran := 0
	for {
		l.mu.Lock()
		batch := l.pending
		l.pending = nil
		l.mu.Unlock()

		if len(batch) == 0 {
			return ran
		}
		for _, fn := range batch {
			fn()
			ran++
		}
	}
}

// Run processes posted functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	for {
		l.Drain()
		select {
		case <-ctx.Done():
			l.Drain()
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) Running() bool {
	return l.running.Load()
}
