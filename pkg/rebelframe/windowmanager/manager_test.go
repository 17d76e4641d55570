package windowmanager_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/sidemenu/parallax"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/sidemenu/slide"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager/windowmanagertest"
)

var (
	stacked    = windowmanager.Intent{NavGroup: true}
	modal      = windowmanager.Intent{ModalWin: true}
	sideMenu   = windowmanager.Intent{ShowSideMenu: true}
	errBoom    = errors.New("boom")
	discardLog = slog.New(slog.NewTextHandler(io.Discard, nil))
)

func newManager(t *testing.T, mutate ...func(*windowmanager.Options)) (*windowmanager.Manager, *windowmanagertest.Platform) {
	t.Helper()

	p := windowmanagertest.NewPlatform()
	opts := windowmanager.Options{
		Platform: p,
		Drawers: map[string]windowmanager.DrawerFactory{
			constants.SideMenuSlide:    slide.Factory,
			constants.SideMenuParallax: parallax.Factory,
		},
		DrawerStrategy: constants.SideMenuSlide,
		Logger:         discardLog,
	}
	for _, fn := range mutate {
		fn(&opts)
	}

	m, err := windowmanager.New(opts)
	require.NoError(t, err)
	t.Cleanup(m.Shutdown)
	return m, p
}

type recorder struct {
	events []windowmanager.Event
}

func (r *recorder) handle(ev windowmanager.Event) {
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []string {
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, string(ev.Kind)+":"+ev.Screen.Title)
	}
	return out
}

func record(m *windowmanager.Manager) *recorder {
	r := &recorder{}
	m.Subscribe("", r.handle)
	return r
}

func TestNewRequiresPlatform(t *testing.T) {
	_, err := windowmanager.New(windowmanager.Options{})
	assert.ErrorIs(t, err, windowmanager.ErrNoPlatform)
}

func TestStackedOpenAndCloseTearsDownController(t *testing.T) {
	m, _ := newManager(t)
	a, b, c := windowmanager.NewScreen("A"), windowmanager.NewScreen("B"), windowmanager.NewScreen("C")

	require.NoError(t, m.Open(a, windowmanager.Intent{NavGroup: true, CreateStack: "main"}))
	require.NoError(t, m.Open(b, stacked.InStack("main")))
	require.NoError(t, m.Open(c, stacked.InStack("main")))

	require.Len(t, m.Controllers(), 1)
	nc := m.ActiveController()
	assert.Equal(t, []*windowmanager.Screen{a, b, c}, nc.Screens())
	assert.Equal(t, []*windowmanager.Screen{a, b, c}, m.Stack("main"))

	m.Close(c)
	assert.Equal(t, []*windowmanager.Screen{a, b}, nc.Screens())
	m.Close(b)
	assert.Equal(t, []*windowmanager.Screen{a}, nc.Screens())
	m.Close(a)

	assert.Empty(t, m.Controllers())
	assert.Nil(t, m.ActiveController())
	assert.Equal(t, windowmanager.ControllerDestroyed, nc.State())
	for _, s := range []*windowmanager.Screen{a, b, c} {
		assert.Equal(t, windowmanager.ScreenClosed, s.State())
	}
	assert.True(t, m.HasStack("main"))
	assert.Empty(t, m.Stack("main"))
}

func TestModalGetsIndependentController(t *testing.T) {
	m, _ := newManager(t)
	a, b, mod := windowmanager.NewScreen("A"), windowmanager.NewScreen("B"), windowmanager.NewScreen("M")

	require.NoError(t, m.Open(a, stacked))
	require.NoError(t, m.Open(b, stacked))
	base := m.ActiveController()

	require.NoError(t, m.Open(mod, modal))
	require.Len(t, m.Controllers(), 2)
	assert.NotSame(t, base, mod.Controller())
	assert.True(t, mod.Controller().Modal())
	assert.Same(t, mod.Controller(), m.ActiveController())

	m.Close(mod)

	require.Len(t, m.Controllers(), 1)
	assert.Same(t, base, m.ActiveController())
	assert.Equal(t, []*windowmanager.Screen{a, b}, base.Screens())
	assert.Equal(t, windowmanager.ScreenOpen, a.State())
	assert.Equal(t, windowmanager.ScreenOpen, b.State())
}

func TestStackedPushesOntoModal(t *testing.T) {
	m, _ := newManager(t)
	a, mod, inner := windowmanager.NewScreen("A"), windowmanager.NewScreen("M"), windowmanager.NewScreen("I")

	require.NoError(t, m.Open(a, stacked))
	require.NoError(t, m.Open(mod, modal))
	require.NoError(t, m.Open(inner, stacked))

	assert.Same(t, mod.Controller(), inner.Controller())
	assert.Equal(t, 1, a.Controller().Depth())
}

func TestNewNavGroupCreatesController(t *testing.T) {
	m, p := newManager(t)
	a, b := windowmanager.NewScreen("A"), windowmanager.NewScreen("B")

	require.NoError(t, m.Open(a, stacked))
	require.NoError(t, m.Open(b, windowmanager.Intent{NewNavGroup: true}))

	require.Len(t, m.Controllers(), 2)
	assert.False(t, b.Controller().Modal())
	assert.True(t, p.Calls[1].Presentation.Root)
}

func TestCloseRootDismissesWholeController(t *testing.T) {
	m, p := newManager(t)
	r := record(m)
	a, b, c := windowmanager.NewScreen("A"), windowmanager.NewScreen("B"), windowmanager.NewScreen("C")

	require.NoError(t, m.Open(a, stacked))
	require.NoError(t, m.Open(b, stacked))
	require.NoError(t, m.Open(c, stacked))
	r.events = nil

	m.Close(a)

	assert.Empty(t, m.Controllers())
	assert.Equal(t, []string{"close:C", "close:B", "close:A"}, r.kinds())
	last := p.Calls[len(p.Calls)-1]
	assert.Equal(t, "close", last.Op)
	assert.True(t, last.Presentation.Root)
}

func TestDrawerHostedReplacesContent(t *testing.T) {
	m, p := newManager(t)
	home, profile := windowmanager.NewScreen("Home"), windowmanager.NewScreen("Profile")

	require.NoError(t, m.Open(home, sideMenu))
	d := m.Drawer()
	require.NotNil(t, d)
	assert.Same(t, home, d.Content())
	assert.Equal(t, constants.SideMenuSlide, d.StrategyName())

	require.NoError(t, m.Open(profile, sideMenu))

	assert.Same(t, d, m.Drawer())
	assert.Same(t, profile, d.Content())
	assert.Equal(t, 1, p.Surface().Presents)
	assert.Same(t, profile, p.Surface().Center)
	assert.Equal(t, windowmanager.ScreenClosed, home.State())
	assert.Equal(t, windowmanager.ScreenOpen, profile.State())
}

func TestDrawerAlreadyInitializing(t *testing.T) {
	m, p := newManager(t)
	p.Async = true
	home, profile := windowmanager.NewScreen("Home"), windowmanager.NewScreen("Profile")

	require.NoError(t, m.Open(home, sideMenu))
	assert.True(t, m.DrawerInitializing())
	assert.Nil(t, m.Drawer())

	err := m.Open(profile, sideMenu)
	require.ErrorIs(t, err, windowmanager.ErrDrawerAlreadyInitializing)
	assert.Equal(t, windowmanager.ScreenIdle, profile.State())

	p.Flush()

	require.NotNil(t, m.Drawer())
	assert.False(t, m.DrawerInitializing())
	assert.Same(t, home, m.Drawer().Content())
	assert.Equal(t, windowmanager.ScreenOpen, home.State())
}

func TestUnknownDrawerStrategy(t *testing.T) {
	m, _ := newManager(t, func(o *windowmanager.Options) { o.DrawerStrategy = "bogus" })
	s := windowmanager.NewScreen("S")

	assert.ErrorIs(t, m.Open(s, sideMenu), windowmanager.ErrUnknownDrawerStrategy)
	assert.Equal(t, windowmanager.ScreenIdle, s.State())
}

func TestDrawerSetupFailure(t *testing.T) {
	m, p := newManager(t)
	r := record(m)
	p.Surface().FailPresent = errBoom
	home := windowmanager.NewScreen("Home")

	require.NoError(t, m.Open(home, sideMenu))

	assert.Nil(t, m.Drawer())
	assert.False(t, m.DrawerInitializing())
	assert.Equal(t, windowmanager.ScreenIdle, home.State())
	assert.False(t, home.IsDrawerContent())
	require.Len(t, r.events, 1)
	assert.True(t, windowmanager.IsTransitionFailed(r.events[0].Err))
	assert.ErrorIs(t, r.events[0].Err, errBoom)

	// A later attempt builds the drawer normally.
	require.NoError(t, m.Open(home, sideMenu))
	assert.NotNil(t, m.Drawer())
}

func TestToggleDrawerEmitsNavbarEvents(t *testing.T) {
	m, p := newManager(t)
	m.ToggleDrawer() // no drawer yet

	home := windowmanager.NewScreen("Home")
	require.NoError(t, m.Open(home, sideMenu))

	var kinds []constants.EventKind
	var screens []*windowmanager.Screen
	collect := func(ev windowmanager.Event) {
		kinds = append(kinds, ev.Kind)
		screens = append(screens, ev.Screen)
	}
	m.Subscribe(constants.EventDrawerOpen, collect)
	m.Subscribe(constants.EventDrawerClose, collect)

	m.ToggleDrawer()
	assert.True(t, m.Drawer().IsOpen())
	m.ToggleDrawer()
	assert.False(t, m.Drawer().IsOpen())

	p.Surface().Gesture(true)

	assert.Equal(t, []constants.EventKind{
		constants.EventDrawerOpen,
		constants.EventDrawerClose,
		constants.EventDrawerOpen,
	}, kinds)
	for _, s := range screens {
		assert.Same(t, home, s)
	}
}

func TestToggleLogsThroughInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	m, _ := newManager(t, func(o *windowmanager.Options) { o.Logger = logger })

	require.NoError(t, m.Open(windowmanager.NewScreen("Home"), sideMenu))
	buf.Reset()
	m.ToggleDrawer()

	assert.Contains(t, buf.String(), "Toggling drawer")
	assert.Contains(t, buf.String(), "drawer="+constants.SideMenuSlide)
}

func TestCloseDrawerContentKeepsDrawer(t *testing.T) {
	m, _ := newManager(t)
	home := windowmanager.NewScreen("Home")
	require.NoError(t, m.Open(home, sideMenu))
	d := m.Drawer()

	m.Close(home)

	assert.Same(t, d, m.Drawer())
	assert.True(t, d.Ready())
	assert.Nil(t, d.Content())
	assert.Equal(t, windowmanager.ScreenClosed, home.State())
}

func TestKillStackClosesInInsertionOrder(t *testing.T) {
	m, p := newManager(t)
	a, b, c := windowmanager.NewScreen("A"), windowmanager.NewScreen("B"), windowmanager.NewScreen("C")
	other := windowmanager.NewScreen("Other")

	require.NoError(t, m.Open(a, windowmanager.Intent{CreateStack: "flow"}))
	require.NoError(t, m.Open(b, windowmanager.Intent{AddToStack: "flow"}))
	require.NoError(t, m.Open(other, windowmanager.Intent{CreateStack: "else"}))
	require.NoError(t, m.Open(c, windowmanager.Intent{TabGroup: true, AddToStack: "flow"}))
	p.Calls = nil

	m.KillStack("flow")

	assert.Equal(t, []string{"close:A", "close:B", "close:C"}, p.Ops())
	assert.True(t, m.HasStack("flow"))
	assert.Empty(t, m.Stack("flow"))
	assert.Equal(t, windowmanager.ScreenOpen, other.State())
	assert.Equal(t, []*windowmanager.Screen{other}, m.Stack("else"))

	// The emptied entry is reusable.
	d := windowmanager.NewScreen("D")
	require.NoError(t, m.Open(d, windowmanager.Intent{AddToStack: "flow"}))
	assert.Equal(t, []*windowmanager.Screen{d}, m.Stack("flow"))
}

func TestKillStackAcrossController(t *testing.T) {
	m, _ := newManager(t)
	a, b := windowmanager.NewScreen("A"), windowmanager.NewScreen("B")

	require.NoError(t, m.Open(a, windowmanager.Intent{NavGroup: true, CreateStack: "main"}))
	require.NoError(t, m.Open(b, stacked.InStack("main")))

	m.KillStack("main")

	assert.Empty(t, m.Controllers())
	assert.Equal(t, windowmanager.ScreenClosed, a.State())
	assert.Equal(t, windowmanager.ScreenClosed, b.State())
}

func TestTeardownIsIdempotent(t *testing.T) {
	m, _ := newManager(t)
	a, b, home := windowmanager.NewScreen("A"), windowmanager.NewScreen("B"), windowmanager.NewScreen("Home")

	require.NoError(t, m.Open(a, windowmanager.Intent{NavGroup: true, CreateStack: "main"}))
	require.NoError(t, m.Open(b, modal))
	require.NoError(t, m.Open(home, sideMenu))
	d := m.Drawer()

	m.Teardown()

	assert.Empty(t, m.Controllers())
	assert.Nil(t, m.Drawer())
	assert.Empty(t, m.StackNames())
	assert.False(t, d.Ready())
	assert.ErrorIs(t, d.Toggle(), windowmanager.ErrDrawerNotActive)
	for _, s := range []*windowmanager.Screen{a, b, home} {
		assert.Equal(t, windowmanager.ScreenClosed, s.State())
	}

	assert.NotPanics(t, m.Teardown)
	assert.Empty(t, m.Controllers())
	assert.Nil(t, m.Drawer())
	assert.Empty(t, m.StackNames())
}

func TestTeardownWhileDrawerInitializing(t *testing.T) {
	m, p := newManager(t)
	p.Async = true
	home := windowmanager.NewScreen("Home")

	require.NoError(t, m.Open(home, sideMenu))
	m.Teardown()
	p.Flush()

	assert.Nil(t, m.Drawer())
	assert.False(t, m.DrawerInitializing())
	assert.Equal(t, windowmanager.ScreenClosed, home.State())
	assert.True(t, p.Surface().Dismissed)
}

func TestFailedOpenLeavesRegistriesUnchanged(t *testing.T) {
	m, p := newManager(t)
	r := record(m)
	a := windowmanager.NewScreen("A")
	p.FailNext(a, errBoom)

	require.NoError(t, m.Open(a, windowmanager.Intent{NavGroup: true, CreateStack: "main"}))

	assert.Empty(t, m.Controllers())
	assert.False(t, m.HasStack("main"))
	assert.Nil(t, a.Controller())
	assert.Equal(t, windowmanager.ScreenIdle, a.State())
	require.Len(t, r.events, 1)
	assert.Equal(t, constants.EventOpen, r.events[0].Kind)
	assert.True(t, r.events[0].Failed())

	var te *windowmanager.TransitionError
	require.ErrorAs(t, r.events[0].Err, &te)
	assert.Equal(t, "open", te.Op)
	assert.Equal(t, a.ID, te.ScreenID)

	// Not retried automatically; the caller may open again.
	require.NoError(t, m.Open(a, stacked))
	assert.Equal(t, windowmanager.ScreenOpen, a.State())
}

func TestFailedPushRollsBack(t *testing.T) {
	m, p := newManager(t)
	a, b := windowmanager.NewScreen("A"), windowmanager.NewScreen("B")
	require.NoError(t, m.Open(a, stacked))

	p.FailNext(b, errBoom)
	require.NoError(t, m.Open(b, stacked))

	assert.Equal(t, []*windowmanager.Screen{a}, a.Controller().Screens())
	assert.Nil(t, b.Controller())
}

func TestFailedRootOpenFailsPendingPushes(t *testing.T) {
	m, p := newManager(t)
	p.Async = true
	r := record(m)
	a, b := windowmanager.NewScreen("A"), windowmanager.NewScreen("B")

	p.FailNext(a, errBoom)
	require.NoError(t, m.Open(a, stacked))
	require.NoError(t, m.Open(b, stacked))
	assert.Same(t, a.Controller(), b.Controller())

	p.Flush()

	assert.Equal(t, windowmanager.ScreenIdle, a.State())
	assert.Equal(t, windowmanager.ScreenIdle, b.State())
	assert.Nil(t, a.Controller())
	assert.Nil(t, b.Controller())
	assert.Empty(t, m.Controllers())

	require.Len(t, r.events, 2)
	assert.Equal(t, []string{"open:B", "open:A"}, r.kinds())
	assert.True(t, windowmanager.IsTransitionFailed(r.events[0].Err))
	assert.ErrorIs(t, r.events[0].Err, windowmanager.ErrControllerDestroyed)
	assert.ErrorIs(t, r.events[1].Err, errBoom)

	// Both screens may be opened again.
	p.Async = false
	require.NoError(t, m.Open(b, stacked))
	assert.Equal(t, windowmanager.ScreenOpen, b.State())
	assert.Equal(t, b, b.Controller().Root())
}

func TestFailedRootOpenClosesSettledPushes(t *testing.T) {
	m, p := newManager(t)
	p.Async = true
	r := record(m)
	a, b := windowmanager.NewScreen("A"), windowmanager.NewScreen("B")

	p.FailNext(a, errBoom)
	require.NoError(t, m.Open(a, stacked))

	// The push settles before the root reports its failure.
	p.Async = false
	require.NoError(t, m.Open(b, stacked.InStack("main")))
	require.Equal(t, windowmanager.ScreenOpen, b.State())
	require.Equal(t, []*windowmanager.Screen{b}, m.Stack("main"))

	p.Flush()

	assert.Equal(t, windowmanager.ScreenIdle, a.State())
	assert.Equal(t, windowmanager.ScreenClosed, b.State())
	assert.Nil(t, b.Controller())
	assert.Empty(t, m.Stack("main"))
	assert.Empty(t, m.Controllers())
	assert.Equal(t, []string{"open:B", "close:B", "open:A"}, r.kinds())
}

func TestFailedCloseKeepsScreenOpen(t *testing.T) {
	m, p := newManager(t)
	r := record(m)
	a, b := windowmanager.NewScreen("A"), windowmanager.NewScreen("B")
	require.NoError(t, m.Open(a, stacked))
	require.NoError(t, m.Open(b, stacked))
	r.events = nil

	p.FailNext(b, errBoom)
	m.Close(b)

	assert.Equal(t, windowmanager.ScreenOpen, b.State())
	assert.Equal(t, 2, a.Controller().Depth())
	require.Len(t, r.events, 1)
	assert.Equal(t, constants.EventClose, r.events[0].Kind)
	assert.True(t, windowmanager.IsTransitionFailed(r.events[0].Err))
}

func TestCloseIsIdempotent(t *testing.T) {
	m, p := newManager(t)
	never := windowmanager.NewScreen("Never")
	m.Close(never)
	m.Close(nil)
	assert.Empty(t, p.Calls)

	a := windowmanager.NewScreen("A")
	require.NoError(t, m.Open(a, windowmanager.Intent{}))
	m.Close(a)
	m.Close(a)

	assert.Equal(t, []string{"open:A", "close:A"}, p.Ops())
	assert.ErrorIs(t, m.Open(a, windowmanager.Intent{}), windowmanager.ErrScreenClosed)
}

func TestOpenRejectsScreenInFlightOrOpen(t *testing.T) {
	m, p := newManager(t)
	p.Async = true
	a := windowmanager.NewScreen("A")

	require.NoError(t, m.Open(a, stacked))
	assert.True(t, a.InFlight())
	assert.ErrorIs(t, m.Open(a, stacked), windowmanager.ErrScreenInFlight)

	p.Flush()
	assert.False(t, a.InFlight())
	assert.ErrorIs(t, m.Open(a, stacked), windowmanager.ErrScreenAlreadyOpen)
}

func TestCloseDuringOpenIsQueued(t *testing.T) {
	m, p := newManager(t)
	p.Async = true
	r := record(m)
	a := windowmanager.NewScreen("A")

	require.NoError(t, m.Open(a, stacked))
	m.Close(a)
	assert.Equal(t, windowmanager.ScreenOpening, a.State())
	assert.Equal(t, []string{"open:A"}, p.Ops())

	p.Flush()

	assert.Equal(t, windowmanager.ScreenClosed, a.State())
	assert.Equal(t, []string{"open:A", "close:A"}, r.kinds())
	assert.Empty(t, m.Controllers())
}

func TestControllerTornDownOnlyAfterCloseCompletes(t *testing.T) {
	m, p := newManager(t)
	a := windowmanager.NewScreen("A")
	require.NoError(t, m.Open(a, stacked))

	p.Async = true
	m.Close(a)
	assert.Len(t, m.Controllers(), 1)
	assert.Nil(t, m.ActiveController(), "a controller being dismissed is not reused")

	p.Flush()
	assert.Empty(t, m.Controllers())
}

func TestHandlerMayCloseAfterOpenSettles(t *testing.T) {
	m, _ := newManager(t)
	a := windowmanager.NewScreen("A")
	m.Subscribe(constants.EventOpen, func(ev windowmanager.Event) {
		m.Close(ev.Screen)
	})

	require.NoError(t, m.Open(a, windowmanager.Intent{}))
	assert.Equal(t, windowmanager.ScreenClosed, a.State())
}

func TestSubscriptionCancel(t *testing.T) {
	m, _ := newManager(t)
	r := &recorder{}
	sub := m.Subscribe(constants.EventOpen, r.handle)
	require.True(t, sub.Active())

	require.NoError(t, m.Open(windowmanager.NewScreen("A"), windowmanager.Intent{}))
	sub.Cancel()
	sub.Cancel()
	require.NoError(t, m.Open(windowmanager.NewScreen("B"), windowmanager.Intent{}))

	assert.False(t, sub.Active())
	assert.Equal(t, []string{"open:A"}, r.kinds())
}

func TestBack(t *testing.T) {
	m, _ := newManager(t)
	a, b, mod := windowmanager.NewScreen("A"), windowmanager.NewScreen("B"), windowmanager.NewScreen("M")

	assert.False(t, m.Back())

	require.NoError(t, m.Open(a, stacked))
	require.NoError(t, m.Open(b, stacked))
	assert.True(t, m.Back())
	assert.Equal(t, windowmanager.ScreenClosed, b.State())
	assert.False(t, m.Back(), "the root of a non-modal controller stays")

	require.NoError(t, m.Open(mod, modal))
	assert.True(t, m.Back())
	assert.Equal(t, windowmanager.ScreenClosed, mod.State())

	home := windowmanager.NewScreen("Home")
	require.NoError(t, m.Open(home, sideMenu))
	m.ToggleDrawer()
	require.True(t, m.Drawer().IsOpen())
	assert.True(t, m.Back())
	assert.False(t, m.Drawer().IsOpen())
}

type fakeGate struct {
	authenticated bool
	userID        string
	listeners     map[int]func(bool)
	next          int
}

func (g *fakeGate) IsAuthenticated() bool { return g.authenticated }

func (g *fakeGate) CurrentUserID() (string, bool) { return g.userID, g.userID != "" }

func (g *fakeGate) OnSessionChange(fn func(bool)) func() {
	if g.listeners == nil {
		g.listeners = make(map[int]func(bool))
	}
	g.next++
	id := g.next
	g.listeners[id] = fn
	return func() { delete(g.listeners, id) }
}

func (g *fakeGate) set(authenticated bool) {
	g.authenticated = authenticated
	for _, fn := range g.listeners {
		fn(authenticated)
	}
}

func TestLogoutResetsToLoggedOutStack(t *testing.T) {
	gate := &fakeGate{authenticated: true, userID: "42"}
	var resets []string
	m, _ := newManager(t, func(o *windowmanager.Options) {
		o.Session = gate
		o.AuthenticatedStack = "main"
		o.LoggedOutStack = "login"
		o.OnReset = func(root string) { resets = append(resets, root) }
	})
	assert.Equal(t, "main", m.RootStack())

	a, b := windowmanager.NewScreen("A"), windowmanager.NewScreen("B")
	require.NoError(t, m.Open(a, windowmanager.Intent{NavGroup: true, CreateStack: "main"}))
	require.NoError(t, m.Open(b, stacked.InStack("main")))

	gate.set(true)
	assert.Empty(t, resets)

	gate.set(false)

	assert.Equal(t, []string{"login"}, resets)
	assert.Equal(t, "login", m.RootStack())
	assert.Equal(t, windowmanager.ScreenClosed, a.State())
	assert.Equal(t, windowmanager.ScreenClosed, b.State())

	m.Shutdown()
	assert.Empty(t, gate.listeners)
}

type trackerFunc func(string, map[string]string)

func (f trackerFunc) Track(event string, props map[string]string) { f(event, props) }

func TestTrackerReceivesScreenViews(t *testing.T) {
	var tracked []string
	m, _ := newManager(t, func(o *windowmanager.Options) {
		o.Tracker = trackerFunc(func(event string, props map[string]string) {
			tracked = append(tracked, event+":"+props["title"]+":"+props["placement"])
		})
	})
	a := windowmanager.NewScreen("A")
	require.NoError(t, m.Open(a, modal))
	m.Close(a)

	assert.Equal(t, []string{"screen_open:A:Modal", "screen_close:A:Modal"}, tracked)
}

// Random open/close sequences never leave a screen in two controllers, and
// every member's back-reference points at its controller.
func TestScreenMembershipIsUnique(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		m, p := newManager(t)
		rng := rand.New(rand.NewSource(seed))
		p.Async = seed%2 == 0

		intents := []windowmanager.Intent{
			stacked, stacked, modal, {NewNavGroup: true}, {}, {TabGroup: true},
		}
		var screens []*windowmanager.Screen

		for step := 0; step < 200; step++ {
			switch rng.Intn(4) {
			case 0, 1:
				s := windowmanager.NewScreen("")
				screens = append(screens, s)
				_ = m.Open(s, intents[rng.Intn(len(intents))])
			case 2:
				if len(screens) > 0 {
					m.Close(screens[rng.Intn(len(screens))])
				}
			case 3:
				if p.Async {
					p.Step()
				}
			}

			seen := make(map[*windowmanager.Screen]int)
			for _, c := range m.Controllers() {
				require.NotEqual(t, windowmanager.ControllerDestroyed, c.State())
				for _, s := range c.Screens() {
					seen[s]++
					require.Same(t, c, s.Controller())
				}
			}
			for s, n := range seen {
				require.Equal(t, 1, n, "screen %s in %d controllers", s, n)
			}
		}

		p.Flush()
		m.Teardown()
		require.Empty(t, m.Controllers())
	}
}
