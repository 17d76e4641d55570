package windowmanagertest

import (
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
)

// Surface is a fake drawer surface. Completion follows its platform's
// Async setting.
type Surface struct {
	Layout    *windowmanager.DrawerLayout
	Center    *windowmanager.Screen
	Animated  bool
	Open      bool
	Presents  int
	Slides    int
	Dismissed bool

	// FailPresent and FailCenter, when set, fail the next matching call.
	FailPresent error
	FailCenter  error

	platform *Platform
	observe  func(open bool)
}

func (s *Surface) Present(layout windowmanager.DrawerLayout, observe func(open bool), done func(error)) {
	s.Presents++
	s.Dismissed = false
	err := s.FailPresent
	s.FailPresent = nil
	s.platform.complete(func() {
		if err == nil {
			s.Layout = &layout
			s.Center = layout.Content
			s.observe = observe
		}
		done(err)
	})
}

func (s *Surface) SetCenter(content *windowmanager.Screen, animated bool, done func(error)) {
	err := s.FailCenter
	s.FailCenter = nil
	s.platform.complete(func() {
		if err == nil {
			s.Center = content
			s.Animated = animated
		}
		done(err)
	})
}

func (s *Surface) Slide(open bool, done func(error)) {
	s.Slides++
	s.platform.complete(func() {
		s.settle(open)
		if done != nil {
			done(nil)
		}
	})
}

func (s *Surface) Dismiss() {
	s.Dismissed = true
	s.observe = nil
}

// Gesture simulates the user dragging the menu open or closed.
func (s *Surface) Gesture(open bool) {
	s.platform.complete(func() { s.settle(open) })
}

func (s *Surface) settle(open bool) {
	if s.Dismissed {
		return
	}
	s.Open = open
	if s.observe != nil {
		s.observe(open)
	}
}
