package windowmanager

import (
	"errors"
	"fmt"
)

// Sentinel errors returned synchronously by the window manager. None of
// them leave navigation state modified.
var (
	// ErrInvalidPlacementIntent indicates an intent that resolves to no
	// placement handler or combines contradictory options.
	ErrInvalidPlacementIntent = errors.New("invalid placement intent")

	// ErrDrawerAlreadyInitializing is returned for a drawer-hosted open while
	// the drawer is still being constructed.
	ErrDrawerAlreadyInitializing = errors.New("drawer already initializing")

	// ErrDrawerNotActive is returned by drawer operations after teardown.
	ErrDrawerNotActive = errors.New("drawer not active")

	// ErrDrawerAlreadyActive is returned when a second drawer would be
	// installed while one is live.
	ErrDrawerAlreadyActive = errors.New("drawer already active")

	// ErrUnknownDrawerStrategy is returned when the configured side menu
	// strategy has no registered factory.
	ErrUnknownDrawerStrategy = errors.New("unknown drawer strategy")

	ErrNilScreen          = errors.New("nil screen")
	ErrScreenInFlight     = errors.New("screen transition in flight")
	ErrScreenAlreadyOpen  = errors.New("screen already open")
	ErrScreenClosed       = errors.New("screen already closed")
	ErrNoPlatform         = errors.New("no platform configured")
	ErrControllerNotEmpty = errors.New("navigation controller not empty")

	// ErrControllerDestroyed is returned when pushing onto a controller that
	// has been torn down.
	ErrControllerDestroyed = errors.New("navigation controller destroyed")

	// ErrScreenInOtherController is returned when pushing a screen that is
	// already a member of a different controller.
	ErrScreenInOtherController = errors.New("screen belongs to another navigation controller")
)

// TransitionError reports a platform open or close that failed. It is
// delivered on the event channel, never returned from Open or Close.
type TransitionError struct {
	Op       string // "open" or "close"
	ScreenID string
	Err      error
}

func (e *TransitionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("windowmanager: %s %s: %v", e.Op, e.ScreenID, e.Err)
	}
	return fmt.Sprintf("windowmanager: %s %s failed", e.Op, e.ScreenID)
}

func (e *TransitionError) Unwrap() error {
	return e.Err
}

// IsTransitionFailed checks if an error is a failed platform transition.
func IsTransitionFailed(err error) bool {
	var te *TransitionError
	return errors.As(err, &te)
}
