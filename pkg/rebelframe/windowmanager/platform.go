package windowmanager

import (
	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
)

// Presentation tells the platform how a screen is being shown or removed.
type Presentation struct {
	Placement constants.Placement

	// Controller is set for Stacked and Modal placements.
	Controller *NavigationController

	// Root is set when the whole controller is displayed or dismissed along
	// with the screen.
	Root bool
}

// Platform performs the actual UI transitions. Every call completes
// asynchronously by invoking done exactly once on the UI goroutine, with a
// nil error on success.
type Platform interface {
	Open(s *Screen, p Presentation, done func(error))
	Close(s *Screen, p Presentation, done func(error))

	// DrawerSurface returns the surface drawer strategies render onto.
	DrawerSurface() DrawerSurface
}

// SessionGate is the slice of the authentication collaborator the window
// manager consumes.
type SessionGate interface {
	IsAuthenticated() bool
	CurrentUserID() (string, bool)

	// OnSessionChange registers fn and returns a function that removes it.
	OnSessionChange(fn func(authenticated bool)) (cancel func())
}

// Tracker is a fire-and-forget analytics sink.
type Tracker interface {
	Track(event string, props map[string]string)
}
