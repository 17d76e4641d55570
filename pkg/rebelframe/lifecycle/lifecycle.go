// Package lifecycle reports when the application comes back to a screen it
// already showed (resumed) and when that screen goes to the background
// (paused).
package lifecycle

import (
	"slices"
	"sync"

	"go.uber.org/atomic"
)

type Event string

const (
	Resumed Event = "resumed"
	Paused  Event = "paused"
)

// Tracker follows which activity is in the foreground. Started and Stopped
// may be called from any goroutine; handlers run on the caller's goroutine.
type Tracker struct {
	active atomic.String

	mu       sync.Mutex
	next     uint64
	handlers map[uint64]handler
}

type handler struct {
	event Event
	fn    func(activity string)
}

func New() *Tracker {
	return &Tracker{handlers: make(map[uint64]handler)}
}

// Active returns the name of the last started activity.
func (t *Tracker) Active() string {
	return t.active.Load()
}

// Started records that name came to the foreground. Resumed fires when it
// was already the active activity.
func (t *Tracker) Started(name string) {
	if t.active.Swap(name) == name {
		t.emit(Resumed, name)
	}
}

// Stopped records that name left the foreground. Paused fires only when it
// is the active activity.
func (t *Tracker) Stopped(name string) {
	if t.active.Load() == name {
		t.emit(Paused, name)
	}
}

// On registers fn for event. The returned function removes it.
func (t *Tracker) On(event Event, fn func(activity string)) (cancel func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	id := t.next
	t.handlers[id] = handler{event: event, fn: fn}

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			delete(t.handlers, id)
			t.mu.Unlock()
		})
	}
}

func (t *Tracker) emit(event Event, name string) {
	t.mu.Lock()
	ids := make([]uint64, 0, len(t.handlers))
	for id, h := range t.handlers {
		if h.event == event {
			ids = append(ids, id)
		}
	}
	fns := make([]func(string), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, t.handlers[id].fn)
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(name)
	}
}
