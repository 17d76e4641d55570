package windowmanager

import (
	"fmt"
	"log/slog"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/internal"
)

// Options configures a Manager.
type Options struct {
	Platform Platform

	// Drawers maps side menu strategy names to factories. DrawerStrategy
	// selects one of them when the first drawer-hosted screen opens.
	Drawers        map[string]DrawerFactory
	DrawerStrategy string
	DrawerWidth    int
	Menu           *Screen // menu panel content; a placeholder is created when nil

	// Session, when set, resets navigation on logout: AuthenticatedStack is
	// killed and OnReset receives the root stack to rebuild.
	Session            SessionGate
	AuthenticatedStack string
	LoggedOutStack     string
	OnReset            func(rootStack string)

	Tracker Tracker
	Logger  *slog.Logger
}

// Manager routes open and close requests to navigation controllers and the
// side drawer, and keeps the named stack registry.
//
// Manager is not safe for concurrent use. Every method, and every platform
// completion callback, must run on the UI goroutine.
type Manager struct {
	opts     Options
	platform Platform
	log      *slog.Logger

	controllers []*NavigationController
	stacks      *StackRegistry

	drawer         *DrawerController
	pendingDrawer  *DrawerController
	drawerIncoming map[*Screen]struct{}

	events        emitter
	cancelSession func()
}

// New creates a Manager. The platform is required.
func New(opts Options) (*Manager, error) {
	if opts.Platform == nil {
		return nil, ErrNoPlatform
	}
	if opts.Logger == nil {
		opts.Logger = internal.GetInternalLogger()
	}
	if opts.DrawerWidth <= 0 {
		opts.DrawerWidth = constants.DefaultDrawerWidth
	}

	m := &Manager{
		opts:           opts,
		platform:       opts.Platform,
		log:            opts.Logger.With("module", "windowmanager"),
		stacks:         NewStackRegistry(),
		drawerIncoming: make(map[*Screen]struct{}),
	}

	if opts.Session != nil {
		m.cancelSession = opts.Session.OnSessionChange(m.onSessionChange)
	}

	return m, nil
}

// Subscribe registers fn for events of the given kind. An empty kind
// receives every event.
func (m *Manager) Subscribe(kind constants.EventKind, fn Handler) *Subscription {
	return m.events.on(kind, fn)
}

// Open routes s according to intent. Routing errors are returned
// synchronously; the outcome of the platform transition arrives as an
// EventOpen.
func (m *Manager) Open(s *Screen, intent Intent) error {
	if s == nil {
		return ErrNilScreen
	}

	placement, err := intent.Resolve()
	if err != nil {
		return err
	}

	switch s.state {
	case ScreenOpening, ScreenClosing:
		return ErrScreenInFlight
	case ScreenOpen:
		return ErrScreenAlreadyOpen
	case ScreenClosed:
		return ErrScreenClosed
	}

	switch placement {
	case constants.PlacementStacked:
		return m.openStacked(s, intent)
	case constants.PlacementModal:
		return m.openInNewController(s, intent, true)
	case constants.PlacementDrawerHosted:
		return m.openDrawerHosted(s, intent)
	case constants.PlacementTopLevel, constants.PlacementTabHosted:
		m.openDirect(s, placement, intent)
		return nil
	default:
		return fmt.Errorf("%w: no handler for %s", ErrInvalidPlacementIntent, placement.GetName())
	}
}

func (m *Manager) openStacked(s *Screen, intent Intent) error {
	c := m.ActiveController()
	if c == nil || intent.NewNavGroup {
		return m.openInNewController(s, intent, false)
	}

	if err := c.Push(s); err != nil {
		return err
	}
	m.beginOpen(s, constants.PlacementStacked)

	m.platform.Open(s, Presentation{Placement: constants.PlacementStacked, Controller: c}, func(err error) {
		m.completeOpen(s, intent, err, func() { c.Remove(s) })
	})
	return nil
}

func (m *Manager) openInNewController(s *Screen, intent Intent, modal bool) error {
	c := NewNavigationController(modal)
	if err := c.PushRoot(s); err != nil {
		return err
	}

	placement := constants.PlacementStacked
	if modal {
		placement = constants.PlacementModal
	}
	m.beginOpen(s, placement)
	m.controllers = append(m.controllers, c)
	m.log.Debug("Created navigation controller", "controller", c.ID(), "modal", modal, "root", s.ID)

	m.platform.Open(s, Presentation{Placement: placement, Controller: c, Root: true}, func(err error) {
		m.completeOpen(s, intent, err, func() { m.abandonController(c) })
	})
	return nil
}

func (m *Manager) openDirect(s *Screen, placement constants.Placement, intent Intent) {
	m.beginOpen(s, placement)
	m.platform.Open(s, Presentation{Placement: placement}, func(err error) {
		m.completeOpen(s, intent, err, nil)
	})
}

func (m *Manager) openDrawerHosted(s *Screen, intent Intent) error {
	if m.pendingDrawer != nil {
		return ErrDrawerAlreadyInitializing
	}
	if m.drawer != nil {
		return m.swapDrawerContent(s, intent)
	}

	name := m.opts.DrawerStrategy
	factory := m.opts.Drawers[name]
	if factory == nil {
		return fmt.Errorf("%w: %q", ErrUnknownDrawerStrategy, name)
	}

	menu := m.opts.Menu
	if menu == nil {
		menu = NewScreen("menu")
	}

	d := newDrawerController(name, factory(m.platform.DrawerSurface()), menu, m.log)
	m.pendingDrawer = d
	m.beginOpen(s, constants.PlacementDrawerHosted)
	s.drawer = true
	m.drawerIncoming[s] = struct{}{}

	layout := DrawerLayout{Content: s, Menu: menu, Width: m.opts.DrawerWidth}
	d.setup(layout, func(err error) {
		delete(m.drawerIncoming, s)
		if m.pendingDrawer == d {
			m.pendingDrawer = nil
		}
		if err == nil {
			err = m.installDrawer(d)
		}
		if err != nil {
			d.teardown()
			m.completeOpen(s, intent, err, func() { s.drawer = false })
			return
		}
		d.content = s
		m.completeOpen(s, intent, nil, nil)
	})
	return nil
}

func (m *Manager) installDrawer(d *DrawerController) error {
	if d.destroyed {
		return ErrDrawerNotActive
	}
	if m.drawer != nil {
		return ErrDrawerAlreadyActive
	}
	m.drawer = d

	// Released together with the drawer's other subscribers on teardown.
	d.OnOpen(func(ev Event) {
		m.events.emit(Event{Kind: constants.EventDrawerOpen, Screen: ev.Screen})
	})
	d.OnClose(func(ev Event) {
		m.events.emit(Event{Kind: constants.EventDrawerClose, Screen: ev.Screen})
	})

	m.log.Info("Drawer installed", "strategy", d.name)
	return nil
}

func (m *Manager) swapDrawerContent(s *Screen, intent Intent) error {
	d := m.drawer
	if !d.Ready() {
		return ErrDrawerNotActive
	}

	m.beginOpen(s, constants.PlacementDrawerHosted)
	s.drawer = true
	m.drawerIncoming[s] = struct{}{}

	d.setContent(s, func(err error) {
		delete(m.drawerIncoming, s)
		if s.state != ScreenOpening {
			return
		}
		if err != nil {
			m.completeOpen(s, intent, err, func() { s.drawer = false })
			return
		}

		prev := d.content
		d.content = s
		m.completeOpen(s, intent, nil, nil)

		// The drawer only presents; the previous content's lifetime is ours.
		if prev != nil && prev != s {
			m.Close(prev)
		}
	})
	return nil
}

func (m *Manager) beginOpen(s *Screen, placement constants.Placement) {
	s.state = ScreenOpening
	s.inFlight.Store(true)
	s.placement = placement
	s.closeQueued = false
}

// completeOpen settles an open. On failure rollback undoes the tentative
// bookkeeping so the screen looks as if it had never been opened.
func (m *Manager) completeOpen(s *Screen, intent Intent, err error, rollback func()) {
	if s.state != ScreenOpening {
		return
	}
	s.inFlight.Store(false)

	if err != nil {
		if rollback != nil {
			rollback()
		}
		m.failOpen(s, err)
		return
	}

	s.state = ScreenOpen
	if name := intent.StackName(); name != "" {
		m.stacks.Add(name, s)
	}

	m.log.Debug("Opened screen", "screen", s.ID, "title", s.Title, "placement", s.placement.GetName())
	m.track("screen_open", s)
	m.events.emit(Event{Kind: constants.EventOpen, Screen: s})

	if s.closeQueued && s.state == ScreenOpen {
		s.closeQueued = false
		m.Close(s)
	}
}

func (m *Manager) failOpen(s *Screen, err error) {
	s.state = ScreenIdle
	s.inFlight.Store(false)
	s.closeQueued = false
	m.log.Error("Open failed", "screen", s.ID, "placement", s.placement.GetName(), "error", err)
	m.events.emit(Event{
		Kind:   constants.EventOpen,
		Screen: s,
		Err:    &TransitionError{Op: "open", ScreenID: s.ID, Err: err},
	})
}

// Close removes s using the routing recorded when it was opened. Closing a
// screen that never opened, or is closed or closing, does nothing. A close
// requested while the open is still in flight runs once the open settles.
func (m *Manager) Close(s *Screen) {
	if s == nil {
		return
	}

	switch s.state {
	case ScreenIdle, ScreenClosing, ScreenClosed:
		return
	case ScreenOpening:
		s.closeQueued = true
		return
	}

	switch {
	case s.nav != nil:
		c := s.nav
		if c.Root() == s {
			m.closeController(c)
		} else {
			m.closeMember(c, s)
		}
	case s.drawer:
		m.closeDrawerContent(s)
	default:
		m.closeDirect(s)
	}
}

func (m *Manager) closeController(c *NavigationController) {
	root := c.Root()
	c.closing = true
	m.beginClose(root)

	m.platform.Close(root, Presentation{Placement: root.placement, Controller: c, Root: true}, func(err error) {
		if root.state != ScreenClosing {
			return
		}
		if err != nil {
			c.closing = false
			m.failClose(root, err)
			return
		}
		m.dismissController(c)
	})
}

func (m *Manager) closeMember(c *NavigationController, s *Screen) {
	m.beginClose(s)

	m.platform.Close(s, Presentation{Placement: s.placement, Controller: c}, func(err error) {
		if s.state != ScreenClosing {
			return
		}
		if err != nil {
			m.failClose(s, err)
			return
		}
		c.Remove(s)
		m.finishClose(s)
		if c.IsEmpty() && c.State() != ControllerDestroyed {
			m.destroyController(c)
		}
	})
}

func (m *Manager) closeDrawerContent(s *Screen) {
	m.beginClose(s)

	m.platform.Close(s, Presentation{Placement: constants.PlacementDrawerHosted}, func(err error) {
		if s.state != ScreenClosing {
			return
		}
		if err != nil {
			m.failClose(s, err)
			return
		}
		// Detach only; the drawer itself stays up.
		if m.drawer != nil && m.drawer.content == s {
			m.drawer.content = nil
		}
		m.finishClose(s)
	})
}

func (m *Manager) closeDirect(s *Screen) {
	m.beginClose(s)

	m.platform.Close(s, Presentation{Placement: s.placement}, func(err error) {
		if s.state != ScreenClosing {
			return
		}
		if err != nil {
			m.failClose(s, err)
			return
		}
		m.finishClose(s)
	})
}

func (m *Manager) beginClose(s *Screen) {
	s.state = ScreenClosing
	s.inFlight.Store(true)
}

func (m *Manager) failClose(s *Screen, err error) {
	s.state = ScreenOpen
	s.inFlight.Store(false)
	m.log.Error("Close failed", "screen", s.ID, "placement", s.placement.GetName(), "error", err)
	m.events.emit(Event{
		Kind:   constants.EventClose,
		Screen: s,
		Err:    &TransitionError{Op: "close", ScreenID: s.ID, Err: err},
	})
}

func (m *Manager) finishClose(s *Screen) {
	s.state = ScreenClosed
	s.inFlight.Store(false)
	s.drawer = false
	s.closeQueued = false
	m.stacks.Remove(s)

	m.log.Debug("Closed screen", "screen", s.ID, "title", s.Title)
	m.track("screen_close", s)
	m.events.emit(Event{Kind: constants.EventClose, Screen: s})
}

// forceClose settles s as closed without waiting for the platform.
func (m *Manager) forceClose(s *Screen) {
	switch s.state {
	case ScreenOpen, ScreenClosing:
		m.finishClose(s)
	case ScreenOpening:
		s.state = ScreenClosed
		s.inFlight.Store(false)
		s.drawer = false
		s.closeQueued = false
	}
}

// dismissController settles every screen of a dismissed controller,
// innermost first, and destroys it.
func (m *Manager) dismissController(c *NavigationController) {
	for s := c.Pop(); s != nil; s = c.Pop() {
		m.forceClose(s)
	}
	m.destroyController(c)
}

// abandonController destroys a controller whose root failed to open.
// Screens pushed onto it go down with it: pending opens fail, settled ones
// are closed.
func (m *Manager) abandonController(c *NavigationController) {
	root := c.Root()
	for s := c.Pop(); s != nil; s = c.Pop() {
		if s == root {
			continue
		}
		switch s.state {
		case ScreenOpening:
			m.failOpen(s, ErrControllerDestroyed)
		case ScreenOpen, ScreenClosing:
			m.finishClose(s)
		}
	}
	m.destroyController(c)
}

func (m *Manager) destroyController(c *NavigationController) {
	c.Destroy()
	for i, existing := range m.controllers {
		if existing == c {
			m.controllers = append(m.controllers[:i], m.controllers[i+1:]...)
			break
		}
	}
	m.log.Debug("Destroyed navigation controller", "controller", c.ID())
}

// KillStack closes every screen recorded under name, oldest first. The
// entry stays registered, empty, for reuse.
func (m *Manager) KillStack(name string) {
	screens := m.stacks.Take(name)
	if len(screens) == 0 {
		return
	}

	m.log.Info("Killing stack", "stack", name, "screens", len(screens))
	for _, s := range screens {
		m.log.Debug("Closing stack member", "stack", name, "screen", s.ID)
		m.Close(s)
	}
}

// ToggleDrawer opens or closes the side menu. Does nothing when no drawer
// is ready.
func (m *Manager) ToggleDrawer() {
	if m.drawer == nil {
		return
	}
	if err := m.drawer.Toggle(); err != nil {
		m.log.Debug("Drawer toggle ignored", "error", err)
	}
}

// Back handles a hardware back press. It pops the innermost screen of the
// active controller, else closes an open side menu, else dismisses a modal
// controller's root. It returns false when nothing was handled and the
// platform should apply its default.
func (m *Manager) Back() bool {
	c := m.ActiveController()
	if c != nil && c.Depth() > 1 {
		if top := c.Top(); top.state == ScreenOpen {
			m.Close(top)
			return true
		}
	}

	if m.drawer != nil && m.drawer.IsOpen() {
		m.ToggleDrawer()
		return true
	}

	if c != nil && c.Modal() {
		if root := c.Root(); root != nil && root.state == ScreenOpen {
			m.Close(root)
			return true
		}
	}
	return false
}

// Teardown closes every navigation controller, tears down the drawer and
// clears the registries. Screens are settled immediately; platform errors
// during teardown are only logged. Calling it again is a no-op.
func (m *Manager) Teardown() {
	controllers := m.controllers
	m.controllers = nil

	for i := len(controllers) - 1; i >= 0; i-- {
		c := controllers[i]
		c.closing = true
		if root := c.Root(); root != nil && root.state == ScreenOpen {
			m.platform.Close(root, Presentation{Placement: root.placement, Controller: c, Root: true}, m.logTeardownError(root))
		}
		m.dismissController(c)
	}

	if d := m.pendingDrawer; d != nil {
		m.pendingDrawer = nil
		d.teardown()
	}

	if d := m.drawer; d != nil {
		m.drawer = nil
		content := d.content
		d.content = nil
		d.teardown()
		if content != nil {
			if content.state == ScreenOpen {
				m.platform.Close(content, Presentation{Placement: constants.PlacementDrawerHosted}, m.logTeardownError(content))
			}
			m.forceClose(content)
		}
	}

	for s := range m.drawerIncoming {
		m.forceClose(s)
		delete(m.drawerIncoming, s)
	}

	m.stacks.Clear()
}

func (m *Manager) logTeardownError(s *Screen) func(error) {
	return func(err error) {
		if err != nil {
			m.log.Warn("Close during teardown failed", "screen", s.ID, "error", err)
		}
	}
}

// Shutdown tears the manager down and releases its session hook and
// subscribers.
func (m *Manager) Shutdown() {
	m.Teardown()
	if m.cancelSession != nil {
		m.cancelSession()
		m.cancelSession = nil
	}
	m.events.clear()
}

func (m *Manager) onSessionChange(authenticated bool) {
	if authenticated {
		return
	}

	root := m.RootStack()
	m.log.Info("Session ended, resetting navigation", "killed", m.opts.AuthenticatedStack, "root", root)

	if m.opts.AuthenticatedStack != "" {
		m.KillStack(m.opts.AuthenticatedStack)
	}
	if m.opts.OnReset != nil {
		m.opts.OnReset(root)
	}
}

// RootStack names the stack navigation should start from for the current
// session state.
func (m *Manager) RootStack() string {
	if m.opts.Session != nil && m.opts.Session.IsAuthenticated() {
		return m.opts.AuthenticatedStack
	}
	return m.opts.LoggedOutStack
}

func (m *Manager) track(event string, s *Screen) {
	if m.opts.Tracker == nil {
		return
	}
	m.opts.Tracker.Track(event, map[string]string{
		"screen":    s.ID,
		"title":     s.Title,
		"placement": s.placement.GetName(),
	})
}

// ActiveController returns the most recently created controller that is
// not being dismissed, or nil.
func (m *Manager) ActiveController() *NavigationController {
	for i := len(m.controllers) - 1; i >= 0; i-- {
		c := m.controllers[i]
		if !c.closing && c.State() != ControllerDestroyed {
			return c
		}
	}
	return nil
}

// Controllers returns the live navigation controllers, oldest first.
func (m *Manager) Controllers() []*NavigationController {
	out := make([]*NavigationController, len(m.controllers))
	copy(out, m.controllers)
	return out
}

// Drawer returns the installed drawer, or nil.
func (m *Manager) Drawer() *DrawerController {
	return m.drawer
}

// DrawerInitializing reports whether a drawer is being constructed.
func (m *Manager) DrawerInitializing() bool {
	return m.pendingDrawer != nil && m.pendingDrawer.Initializing()
}

// Stack returns the screens recorded under name, oldest first.
func (m *Manager) Stack(name string) []*Screen {
	return m.stacks.Screens(name)
}

func (m *Manager) HasStack(name string) bool {
	return m.stacks.Has(name)
}

func (m *Manager) StackNames() []string {
	return m.stacks.Names()
}
