// Package headless provides a Platform that keeps an in-memory picture of
// what would be on screen. Transitions complete on the next turn of the
// event loop, the way a real toolkit reports them. It backs development
// mode and tests of code built on the window manager.
package headless

import (
	"log/slog"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/internal"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
)

// Poster schedules a function on the UI goroutine.
type Poster interface {
	Post(fn func())
}

// Platform implements windowmanager.Platform without a UI.
type Platform struct {
	loop     Poster
	log      *slog.Logger
	visible  []*windowmanager.Screen
	failures map[string]error
	drawer   *Surface
}

// New creates a headless platform completing transitions through loop.
func New(loop Poster, log *slog.Logger) *Platform {
	if log == nil {
		log = internal.GetInternalLogger()
	}
	p := &Platform{
		loop:     loop,
		log:      log.With("platform", "headless"),
		failures: make(map[string]error),
	}
	p.drawer = &Surface{platform: p}
	return p
}

func (p *Platform) Open(s *windowmanager.Screen, pres windowmanager.Presentation, done func(error)) {
	p.log.Debug("Open requested", "screen", s.ID, "title", s.Title, "placement", pres.Placement.GetName(), "root", pres.Root)
	err := p.takeFailure(s.ID)

	p.loop.Post(func() {
		if err == nil {
			p.visible = append(p.visible, s)
		}
		done(err)
	})
}

func (p *Platform) Close(s *windowmanager.Screen, pres windowmanager.Presentation, done func(error)) {
	p.log.Debug("Close requested", "screen", s.ID, "title", s.Title, "placement", pres.Placement.GetName(), "root", pres.Root)
	err := p.takeFailure(s.ID)

	p.loop.Post(func() {
		if err == nil {
			if pres.Root && pres.Controller != nil {
				for _, member := range pres.Controller.Screens() {
					p.hide(member)
				}
			}
			p.hide(s)
		}
		done(err)
	})
}

func (p *Platform) DrawerSurface() windowmanager.DrawerSurface {
	return p.drawer
}

// Fail makes the next transition of the screen with the given id fail.
func (p *Platform) Fail(screenID string, err error) {
	p.failures[screenID] = err
}

// Visible returns the titles of visible screens in the order they appeared.
func (p *Platform) Visible() []string {
	out := make([]string, 0, len(p.visible))
	for _, s := range p.visible {
		out = append(out, s.Title)
	}
	return out
}

func (p *Platform) takeFailure(id string) error {
	err := p.failures[id]
	delete(p.failures, id)
	return err
}

func (p *Platform) hide(s *windowmanager.Screen) {
	for i, v := range p.visible {
		if v == s {
			p.visible = append(p.visible[:i], p.visible[i+1:]...)
			return
		}
	}
}

// Surface is the headless drawer surface.
type Surface struct {
	platform *Platform
	layout   *windowmanager.DrawerLayout
	center   *windowmanager.Screen
	observe  func(open bool)
	open     bool
}

func (s *Surface) Present(layout windowmanager.DrawerLayout, observe func(open bool), done func(error)) {
	s.platform.log.Debug("Presenting drawer", "style", layout.Style, "width", layout.Width)
	s.platform.loop.Post(func() {
		s.layout = &layout
		s.center = layout.Content
		s.observe = observe
		s.open = false
		done(nil)
	})
}

func (s *Surface) SetCenter(content *windowmanager.Screen, animated bool, done func(error)) {
	s.platform.loop.Post(func() {
		s.center = content
		done(nil)
	})
}

func (s *Surface) Slide(open bool, done func(error)) {
	s.platform.loop.Post(func() {
		if s.layout == nil {
			if done != nil {
				done(windowmanager.ErrDrawerNotActive)
			}
			return
		}
		s.open = open
		if s.observe != nil {
			s.observe(open)
		}
		if done != nil {
			done(nil)
		}
	})
}

func (s *Surface) Dismiss() {
	s.layout = nil
	s.center = nil
	s.observe = nil
	s.open = false
}

// Style returns the presented drawer style, or "" when no drawer is up.
func (s *Surface) Style() string {
	if s.layout == nil {
		return ""
	}
	return s.layout.Style
}

func (s *Surface) Center() *windowmanager.Screen {
	return s.center
}

func (s *Surface) IsOpen() bool {
	return s.open
}

// Gesture simulates dragging the menu panel, honoring the layout's
// gesture settings.
func (s *Surface) Gesture(open bool) {
	if s.layout == nil {
		return
	}
	if (open && !s.layout.GestureOpen) || (!open && !s.layout.GestureClose) {
		return
	}
	s.Slide(open, nil)
}

// Surface returns the concrete headless drawer surface.
func (p *Platform) Surface() *Surface {
	return p.drawer
}

var _ windowmanager.Platform = (*Platform)(nil)
