// Package windowmanager tracks navigation stacks and the side drawer.
//
// Callers describe where a screen goes with an Intent and hand it to a
// Manager. The Manager routes it to a NavigationController (stacked and
// modal screens), the DrawerController (drawer-hosted screens) or straight
// to the Platform (top-level and tab-hosted screens), and records it in any
// named stack the intent mentions.
//
// # Basic Usage
//
//	m, err := windowmanager.New(windowmanager.Options{
//	    Platform:       platform,
//	    Drawers:        map[string]windowmanager.DrawerFactory{"slide": slide.Factory},
//	    DrawerStrategy: "slide",
//	})
//
//	list := windowmanager.NewScreen("List")
//	m.Open(list, windowmanager.Intent{NavGroup: true, CreateStack: "browse"})
//
//	detail := windowmanager.NewScreen("Detail")
//	m.Open(detail, windowmanager.Intent{NavGroup: true, AddToStack: "browse"})
//
//	// Later: close everything opened as part of the flow, oldest first.
//	m.KillStack("browse")
//
// # Transitions
//
// Platform transitions are asynchronous. Open and Close only return routing
// errors; the result of the transition arrives as an Event once the
// platform calls back. Bookkeeping that depends on a finished transition,
// such as destroying an emptied controller, happens in that callback. A
// failed transition is reported as an Event whose Err is a
// *TransitionError, and leaves the manager as if it had not been requested.
//
// # Side Drawer
//
// The first drawer-hosted open builds the drawer with the configured
// strategy; later ones swap its content and close the previous content.
// There is never more than one drawer per Manager.
package windowmanager
