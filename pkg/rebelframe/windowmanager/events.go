package windowmanager

import (
	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
)

// Event is a notification about a screen. Failed transitions are
// delivered on the same kind as successful ones with Err set.
type Event struct {
	Kind   constants.EventKind
	Screen *Screen
	Err    error
}

// Failed reports whether the event describes a failed transition.
func (e Event) Failed() bool {
	return e.Err != nil
}

// Handler receives events.
type Handler func(Event)

// Subscription is the handle returned when subscribing to events. It is
// released by Cancel or when the component that issued it is torn down.
type Subscription struct {
	owner *emitter
	id    uint64
}

// Cancel stops delivery to the subscriber. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.owner == nil {
		return
	}
	s.owner.remove(s.id)
	s.owner = nil
}

// Active reports whether the subscription still receives events.
func (s *Subscription) Active() bool {
	return s != nil && s.owner != nil && s.owner.has(s.id)
}

type subscriber struct {
	id      uint64
	kind    constants.EventKind
	handler Handler
}

// emitter fans events out to subscribers in subscription order. An empty
// kind subscribes to every event.
type emitter struct {
	nextID uint64
	subs   []subscriber
}

func (e *emitter) on(kind constants.EventKind, fn Handler) *Subscription {
	e.nextID++
	e.subs = append(e.subs, subscriber{id: e.nextID, kind: kind, handler: fn})
	return &Subscription{owner: e, id: e.nextID}
}

func (e *emitter) remove(id uint64) {
	for i, s := range e.subs {
		if s.id == id {
			e.subs = append(e.subs[:i], e.subs[i+1:]...)
			return
		}
	}
}

func (e *emitter) has(id uint64) bool {
	for _, s := range e.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

func (e *emitter) emit(ev Event) {
	// Handlers may cancel subscriptions while we iterate.
	snapshot := make([]subscriber, len(e.subs))
	copy(snapshot, e.subs)

	for _, s := range snapshot {
		if s.kind != "" && s.kind != ev.Kind {
			continue
		}
		if !e.has(s.id) {
			continue
		}
		s.handler(ev)
	}
}

// clear drops every subscriber. Outstanding handles become inactive.
func (e *emitter) clear() {
	e.subs = nil
}

func (e *emitter) len() int {
	return len(e.subs)
}
