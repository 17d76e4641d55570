// Package tracker provides analytics sinks for screen views and other
// fire-and-forget events.
package tracker

import (
	"log/slog"
	"maps"
	"sync"

	"go.uber.org/atomic"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/internal"
)

// Sink receives analytics events. Implementations must not block.
type Sink interface {
	Track(event string, props map[string]string)
}

// Func adapts a function to a Sink.
type Func func(event string, props map[string]string)

func (f Func) Track(event string, props map[string]string) { f(event, props) }

// Log writes every event to a logger at info level.
type Log struct {
	log *slog.Logger
}

func NewLog(log *slog.Logger) *Log {
	if log == nil {
		log = internal.GetLogger()
	}
	return &Log{log: log.With("component", "tracker")}
}

func (l *Log) Track(event string, props map[string]string) {
	attrs := make([]any, 0, 2+2*len(props))
	attrs = append(attrs, "event", event)
	for k, v := range props {
		attrs = append(attrs, k, v)
	}
	l.log.Info("Tracked", attrs...)
}

// Multi fans an event out to several sinks in order.
type Multi []Sink

func (m Multi) Track(event string, props map[string]string) {
	for _, s := range m {
		s.Track(event, props)
	}
}

type record struct {
	event string
	props map[string]string
}

// Async delivers events to a sink from its own goroutine. Events are
// dropped when the buffer is full.
type Async struct {
	sink    Sink
	queue   chan record
	dropped atomic.Int64

	mu     sync.Mutex
	closed bool
	done   chan struct{}
}

// NewAsync starts the delivery goroutine. Call Close to stop it.
func NewAsync(sink Sink, buffer int) *Async {
	if buffer <= 0 {
		buffer = 64
	}
	a := &Async{
		sink:  sink,
		queue: make(chan record, buffer),
		done:  make(chan struct{}),
	}
	go a.run()
	return a
}

func (a *Async) run() {
	defer close(a.done)
	for r := range a.queue {
		a.sink.Track(r.event, r.props)
	}
}

// Track enqueues the event. The props map is copied.
func (a *Async) Track(event string, props map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		a.dropped.Inc()
		return
	}
	select {
	case a.queue <- record{event: event, props: maps.Clone(props)}:
	default:
		a.dropped.Inc()
	}
}

// Dropped returns how many events were discarded.
func (a *Async) Dropped() int64 {
	return a.dropped.Load()
}

// Close stops accepting events and waits for queued ones to be delivered.
func (a *Async) Close() {
	a.mu.Lock()
	if !a.closed {
		a.closed = true
		close(a.queue)
	}
	a.mu.Unlock()
	<-a.done
}
