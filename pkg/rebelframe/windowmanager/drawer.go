package windowmanager

import (
	"log/slog"

	"go.uber.org/atomic"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
)

// DrawerLayout describes the drawer a strategy asks the surface to build.
type DrawerLayout struct {
	Style   string
	Content *Screen
	Menu    *Screen

	Width          int     // width of the menu panel in dip
	ContentScale   float64 // scale applied to the content while the menu shows; 0 for none
	ParallaxFactor int     // menu parallax while sliding; 0 for none
	Shadow         bool
	Stretch        bool
	GestureOpen    bool
	GestureClose   bool

	// ReparentContent moves the content's views into the drawer's center
	// view instead of hosting the content window itself.
	ReparentContent bool
}

// DrawerSurface is the platform half of a drawer. Strategies only decide
// how to drive it. Like Platform, every done callback runs on the UI
// goroutine after the visual transition finishes.
type DrawerSurface interface {
	// Present builds and shows the drawer. observe is called whenever the
	// menu panel settles open or closed, whatever caused it.
	Present(layout DrawerLayout, observe func(open bool), done func(error))
	SetCenter(content *Screen, animated bool, done func(error))
	Slide(open bool, done func(error))
	Dismiss()
}

// DrawerListener receives a strategy's open/close notifications, fired
// after the transition is complete.
type DrawerListener interface {
	DrawerOpened()
	DrawerClosed()
}

// Drawer is a side menu strategy.
type Drawer interface {
	Setup(layout DrawerLayout, listener DrawerListener, done func(error))
	SetContent(s *Screen, done func(error))
	Toggle()
	IsOpen() bool
	Teardown()
}

// DrawerFactory builds a strategy on the given surface.
type DrawerFactory func(surface DrawerSurface) Drawer

// DrawerController owns the single side drawer: the strategy presenting it,
// the hosted content screen, and subscribers to its open/close events.
type DrawerController struct {
	name     string
	strategy Drawer
	menu     *Screen
	content  *Screen

	initializing atomic.Bool
	ready        bool
	destroyed    bool

	events emitter
	log    *slog.Logger
}

func newDrawerController(name string, strategy Drawer, menu *Screen, log *slog.Logger) *DrawerController {
	return &DrawerController{
		name:     name,
		strategy: strategy,
		menu:     menu,
		log:      log.With("drawer", name),
	}
}

// StrategyName returns the configured side menu strategy name.
func (d *DrawerController) StrategyName() string {
	return d.name
}

func (d *DrawerController) Strategy() Drawer {
	return d.strategy
}

// Content returns the hosted content screen, or nil once detached.
func (d *DrawerController) Content() *Screen {
	return d.content
}

func (d *DrawerController) Menu() *Screen {
	return d.menu
}

// Ready reports whether setup has completed and teardown has not run.
func (d *DrawerController) Ready() bool {
	return d.ready && !d.destroyed
}

func (d *DrawerController) Initializing() bool {
	return d.initializing.Load()
}

func (d *DrawerController) IsOpen() bool {
	return d.Ready() && d.strategy.IsOpen()
}

// Toggle opens the menu if closed and closes it if open.
func (d *DrawerController) Toggle() error {
	if !d.Ready() {
		return ErrDrawerNotActive
	}
	d.log.Debug("Toggling drawer", "open", !d.strategy.IsOpen())
	d.strategy.Toggle()
	return nil
}

// OnOpen subscribes to menu-open notifications. The event carries the
// hosted content screen.
func (d *DrawerController) OnOpen(fn Handler) *Subscription {
	return d.events.on(constants.EventDrawerOpen, fn)
}

// OnClose subscribes to menu-close notifications.
func (d *DrawerController) OnClose(fn Handler) *Subscription {
	return d.events.on(constants.EventDrawerClose, fn)
}

func (d *DrawerController) setup(layout DrawerLayout, done func(error)) {
	d.initializing.Store(true)
	d.log.Debug("Setting up drawer", "content", layout.Content.ID)

	d.strategy.Setup(layout, drawerListener{d}, func(err error) {
		d.initializing.Store(false)
		if err == nil && !d.destroyed {
			d.ready = true
		}
		done(err)
	})
}

func (d *DrawerController) setContent(s *Screen, done func(error)) {
	if !d.Ready() {
		done(ErrDrawerNotActive)
		return
	}
	d.strategy.SetContent(s, done)
}

// teardown releases the strategy and every subscription. Safe to call on
// an already torn down controller.
func (d *DrawerController) teardown() {
	if d.destroyed {
		return
	}
	d.destroyed = true
	d.ready = false
	d.initializing.Store(false)
	d.strategy.Teardown()
	d.events.clear()
	d.log.Debug("Drawer torn down")
}

type drawerListener struct {
	d *DrawerController
}

func (l drawerListener) DrawerOpened() {
	if l.d.destroyed {
		return
	}
	l.d.events.emit(Event{Kind: constants.EventDrawerOpen, Screen: l.d.content})
}

func (l drawerListener) DrawerClosed() {
	if l.d.destroyed {
		return
	}
	l.d.events.emit(Event{Kind: constants.EventDrawerClose, Screen: l.d.content})
}
