package windowmanager

import (
	"github.com/google/uuid"
)

// ControllerState is the lifecycle state of a NavigationController.
type ControllerState int

const (
	ControllerEmpty ControllerState = iota
	ControllerActive
	ControllerDestroyed
)

func (s ControllerState) GetName() string {
	switch s {
	case ControllerEmpty:
		return "Empty"
	case ControllerActive:
		return "Active"
	case ControllerDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// NavigationController is an ordered back-stack of screens presented as one
// navigable unit. The last screen is the innermost (most recently pushed).
//
// A controller moves Empty → Active → Empty → Destroyed. The window manager
// destroys a controller as soon as it becomes empty; a controller is never
// destroyed by Pop alone.
type NavigationController struct {
	id        string
	modal     bool
	closing   bool
	destroyed bool
	screens   []*Screen
}

// NewNavigationController creates an empty controller.
func NewNavigationController(modal bool) *NavigationController {
	return &NavigationController{
		id:      "navWindow_" + uuid.NewString(),
		modal:   modal,
		screens: make([]*Screen, 0, 4),
	}
}

func (c *NavigationController) ID() string {
	return c.id
}

// Modal reports whether the controller was created for a modal open.
func (c *NavigationController) Modal() bool {
	return c.modal
}

func (c *NavigationController) State() ControllerState {
	switch {
	case c.destroyed:
		return ControllerDestroyed
	case len(c.screens) == 0:
		return ControllerEmpty
	default:
		return ControllerActive
	}
}

// PushRoot sets the first screen. Only valid on an empty controller.
func (c *NavigationController) PushRoot(s *Screen) error {
	if len(c.screens) != 0 {
		return ErrControllerNotEmpty
	}
	return c.Push(s)
}

// Push appends s as the innermost screen.
func (c *NavigationController) Push(s *Screen) error {
	if s == nil {
		return ErrNilScreen
	}
	if c.destroyed {
		return ErrControllerDestroyed
	}
	if s.nav != nil && s.nav != c {
		return ErrScreenInOtherController
	}
	if s.nav == c {
		return nil
	}
	s.nav = c
	c.screens = append(c.screens, s)
	return nil
}

// Pop removes and returns the innermost screen.
// Returns nil if the controller is empty.
func (c *NavigationController) Pop() *Screen {
	if len(c.screens) == 0 {
		return nil
	}
	s := c.screens[len(c.screens)-1]
	c.screens[len(c.screens)-1] = nil
	c.screens = c.screens[:len(c.screens)-1]
	s.nav = nil
	return s
}

// Remove takes s out of the controller wherever it sits.
func (c *NavigationController) Remove(s *Screen) bool {
	for i, existing := range c.screens {
		if existing == s {
			last := len(c.screens) - 1
			copy(c.screens[i:], c.screens[i+1:])
			c.screens[last] = nil
			c.screens = c.screens[:last]
			s.nav = nil
			return true
		}
	}
	return false
}

// Top returns the innermost screen without removing it.
// Returns nil if the controller is empty.
func (c *NavigationController) Top() *Screen {
	if len(c.screens) == 0 {
		return nil
	}
	return c.screens[len(c.screens)-1]
}

// Root returns the first screen, or nil.
func (c *NavigationController) Root() *Screen {
	if len(c.screens) == 0 {
		return nil
	}
	return c.screens[0]
}

func (c *NavigationController) Contains(s *Screen) bool {
	return s != nil && s.nav == c
}

// IsEmpty returns true if the controller holds no screens.
func (c *NavigationController) IsEmpty() bool {
	return len(c.screens) == 0
}

// Depth returns the number of screens in the controller.
func (c *NavigationController) Depth() int {
	return len(c.screens)
}

// Screens returns a copy of the controller's screens, root first.
func (c *NavigationController) Screens() []*Screen {
	out := make([]*Screen, len(c.screens))
	copy(out, c.screens)
	return out
}

// Destroy tears the controller down. Remaining screens are released.
func (c *NavigationController) Destroy() {
	for c.Pop() != nil {
	}
	c.destroyed = true
}
