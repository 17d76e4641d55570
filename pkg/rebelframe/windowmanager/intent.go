package windowmanager

import (
	"fmt"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
)

// Intent is the caller-declared way a screen enters the navigation
// topology. Flags resolve by precedence:
// ShowSideMenu > ModalWin > NewNavGroup > NavGroup > TabGroup > top level.
type Intent struct {
	CreateStack string // start a named stack with this screen
	AddToStack  string // append this screen to an existing named stack

	ModalWin     bool // open in a new, independent navigation controller
	NewNavGroup  bool // open in a new non-modal navigation controller
	NavGroup     bool // push onto the active navigation controller
	ShowSideMenu bool // host the screen in the side drawer
	TopWindow    bool // open as a top-level window
	TabGroup     bool // open inside the active tab

	placement *constants.Placement
}

// Place builds an intent for an explicit placement.
func Place(p constants.Placement) Intent {
	return Intent{placement: &p}
}

// InStack returns a copy of the intent that records the screen under the
// named stack, creating the stack when it does not exist yet.
func (i Intent) InStack(name string) Intent {
	i.AddToStack = name
	return i
}

// StackName returns the named stack the screen should be recorded under.
func (i Intent) StackName() string {
	if i.CreateStack != "" {
		return i.CreateStack
	}
	return i.AddToStack
}

// Resolve returns the placement the intent routes to.
func (i Intent) Resolve() (constants.Placement, error) {
	if i.CreateStack != "" && i.AddToStack != "" {
		return 0, fmt.Errorf("%w: both createStack %q and addToStack %q set",
			ErrInvalidPlacementIntent, i.CreateStack, i.AddToStack)
	}

	if i.placement != nil {
		if !i.placement.Valid() {
			return 0, fmt.Errorf("%w: placement %d", ErrInvalidPlacementIntent, *i.placement)
		}
		return *i.placement, nil
	}

	switch {
	case i.ShowSideMenu:
		return constants.PlacementDrawerHosted, nil
	case i.ModalWin:
		return constants.PlacementModal, nil
	case i.NewNavGroup, i.NavGroup:
		return constants.PlacementStacked, nil
	case i.TabGroup:
		return constants.PlacementTabHosted, nil
	default:
		return constants.PlacementTopLevel, nil
	}
}
