// Package windowmanagertest provides a scriptable Platform and DrawerSurface
// for exercising the window manager and drawer strategies without a UI.
package windowmanagertest

import (
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
)

// Call records one platform request.
type Call struct {
	Op           string // "open" or "close"
	Screen       *windowmanager.Screen
	Presentation windowmanager.Presentation
}

// Platform completes transitions immediately, or queues them until Flush
// when Async is set. Failures are injected per screen with FailNext.
type Platform struct {
	Async bool
	Calls []Call

	pending  []func()
	failures map[string]error
	surface  *Surface
}

func NewPlatform() *Platform {
	p := &Platform{failures: make(map[string]error)}
	p.surface = &Surface{platform: p}
	return p
}

func (p *Platform) Open(s *windowmanager.Screen, pres windowmanager.Presentation, done func(error)) {
	p.Calls = append(p.Calls, Call{Op: "open", Screen: s, Presentation: pres})
	p.finish(s.ID, done)
}

func (p *Platform) Close(s *windowmanager.Screen, pres windowmanager.Presentation, done func(error)) {
	p.Calls = append(p.Calls, Call{Op: "close", Screen: s, Presentation: pres})
	p.finish(s.ID, done)
}

func (p *Platform) DrawerSurface() windowmanager.DrawerSurface {
	return p.surface
}

// Surface returns the fake drawer surface handed to strategies.
func (p *Platform) Surface() *Surface {
	return p.surface
}

// FailNext makes the next transition reported for s fail with err.
func (p *Platform) FailNext(s *windowmanager.Screen, err error) {
	p.failures[s.ID] = err
}

// Pending returns the number of completions waiting for Flush.
func (p *Platform) Pending() int {
	return len(p.pending)
}

// Flush runs queued completions, including ones queued while flushing, and
// returns how many ran.
func (p *Platform) Flush() int {
	ran := 0
	for len(p.pending) > 0 {
		batch := p.pending
		p.pending = nil
		for _, fn := range batch {
			fn()
			ran++
		}
	}
	return ran
}

// Step runs only the oldest queued completion.
func (p *Platform) Step() bool {
	if len(p.pending) == 0 {
		return false
	}
	fn := p.pending[0]
	p.pending = p.pending[1:]
	fn()
	return true
}

// Ops returns the recorded operations as "op:title" strings.
func (p *Platform) Ops() []string {
	out := make([]string, 0, len(p.Calls))
	for _, c := range p.Calls {
		out = append(out, c.Op+":"+c.Screen.Title)
	}
	return out
}

func (p *Platform) finish(key string, done func(error)) {
	err := p.failures[key]
	delete(p.failures, key)
	p.complete(func() {
		if done != nil {
			done(err)
		}
	})
}

func (p *Platform) complete(fn func()) {
	if p.Async {
		p.pending = append(p.pending, fn)
		return
	}
	fn()
}
