package windowmanager

import (
	"github.com/google/uuid"
	"go.uber.org/atomic"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
)

// ScreenState tracks where a screen is in its open/close lifecycle.
type ScreenState int

const (
	ScreenIdle ScreenState = iota
	ScreenOpening
	ScreenOpen
	ScreenClosing
	ScreenClosed
)

func (s ScreenState) GetName() string {
	switch s {
	case ScreenIdle:
		return "Idle"
	case ScreenOpening:
		return "Opening"
	case ScreenOpen:
		return "Open"
	case ScreenClosing:
		return "Closing"
	case ScreenClosed:
		return "Closed"
	default:
		return "Unknown"
	}
}

// Screen is an opaque displayable unit. The window manager only keeps
// bookkeeping on it; Data carries whatever the platform needs to render it.
//
// A Screen is created before Open and must not be reused once closed.
type Screen struct {
	ID    string
	Title string
	Data  any

	state       ScreenState
	inFlight    atomic.Bool
	placement   constants.Placement
	nav         *NavigationController
	drawer      bool
	closeQueued bool
}

// NewScreen creates an idle screen with a random id.
func NewScreen(title string) *Screen {
	return &Screen{
		ID:    uuid.NewString(),
		Title: title,
	}
}

func (s *Screen) State() ScreenState {
	return s.state
}

// Placement returns the placement the screen was last opened with.
func (s *Screen) Placement() constants.Placement {
	return s.placement
}

// Controller returns the navigation controller the screen belongs to, or nil.
func (s *Screen) Controller() *NavigationController {
	return s.nav
}

// IsDrawerContent reports whether the screen was opened as drawer content
// and has not been closed since.
func (s *Screen) IsDrawerContent() bool {
	return s.drawer
}

// InFlight reports whether an open or close of the screen is waiting for
// the platform to finish.
func (s *Screen) InFlight() bool {
	return s.inFlight.Load()
}

func (s *Screen) String() string {
	if s.Title == "" {
		return s.ID
	}
	return s.Title + "(" + s.ID + ")"
}
