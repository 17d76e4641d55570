// Package rebelframe bundles the window manager with the collaborators a
// mobile application needs around it: configuration, logging, the session
// gate, the cloud transport, analytics, localized alerts and hardware keys.
//
// New wires everything from a TOML configuration. Run drives the UI event
// loop; every window manager call made from another goroutine must go
// through Post.
package rebelframe

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/alert"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/cloud"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/config"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/internal"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/lifecycle"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/platform/headless"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/session"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/sidemenu/native"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/sidemenu/parallax"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/sidemenu/slide"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/tracker"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
)

// Options configures the framework. Zero values pick the defaults noted on
// each field.
type Options struct {
	ConfigPath string         // TOML file; REBELFRAME_CONFIG overrides it
	Config     *config.Config // used instead of reading ConfigPath when set

	Platform  windowmanager.Platform // headless when nil
	Presenter alert.Presenter        // alerts are logged when nil
	Tracker   tracker.Sink           // events are logged when nil
	Store     session.Store          // bbolt at session.store_path, else in memory

	Menu    *windowmanager.Screen  // side menu panel content
	OnReset func(rootStack string) // called after logout with the stack to rebuild
}

// Framework is a wired set of rebelframe components.
type Framework struct {
	Config    config.Config
	Loop      *internal.Loop
	Windows   *windowmanager.Manager
	Session   *session.Manager
	Cloud     *cloud.Client
	Lifecycle *lifecycle.Tracker
	Alerts    *alert.Alerter

	headless  *headless.Platform
	analytics *tracker.Async
	alertSub  *windowmanager.Subscription
	store     session.Store
	log       *slog.Logger
}

// DrawerFactories returns the built-in side menu strategies keyed by their
// side_menu.type names.
func DrawerFactories() map[string]windowmanager.DrawerFactory {
	return map[string]windowmanager.DrawerFactory{
		constants.SideMenuSlide:    slide.Factory,
		constants.SideMenuParallax: parallax.Factory,
		constants.SideMenuNative:   native.Factory,
	}
}

// New loads configuration, sets up logging and wires the components.
func New(opts Options) (*Framework, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	configureLogging(cfg.Log)
	log := internal.GetInternalLogger()

	f := &Framework{
		Config:    cfg,
		Loop:      internal.NewLoop(),
		Lifecycle: lifecycle.New(),
		log:       log,
	}

	platform := opts.Platform
	if platform == nil {
		f.headless = headless.New(f.Loop, log)
		platform = f.headless
	}

	f.Cloud = cloud.New(cfg.Cloud.BaseURL, cfg.Cloud.Timeout.Duration, log)
	f.Cloud.Loop = f.Loop

	f.store = opts.Store
	if f.store == nil {
		if cfg.Session.StorePath != "" {
			if f.store, err = session.OpenStore(cfg.Session.StorePath); err != nil {
				return nil, err
			}
		} else {
			f.store = session.NewMemoryStore()
		}
	}

	f.Session, err = session.New(session.Options{
		Store:   f.store,
		Cloud:   f.Cloud,
		Service: cfg.Session.Service,
		Salt:    cfg.Session.Salt,
		Loop:    f.Loop,
		Logger:  log,
	})
	if err != nil {
		f.store.Close()
		return nil, fmt.Errorf("restore session: %w", err)
	}

	sink := opts.Tracker
	if sink == nil {
		sink = tracker.NewLog(internal.GetLogger())
	}
	f.analytics = tracker.NewAsync(sink, 0)

	f.Windows, err = windowmanager.New(windowmanager.Options{
		Platform:           platform,
		Drawers:            DrawerFactories(),
		DrawerStrategy:     cfg.SideMenu.Type,
		DrawerWidth:        cfg.SideMenu.Width,
		Menu:               opts.Menu,
		Session:            f.Session,
		AuthenticatedStack: cfg.Session.AuthenticatedStack,
		LoggedOutStack:     cfg.Session.LoggedOutStack,
		OnReset:            opts.OnReset,
		Tracker:            f.analytics,
		Logger:             log,
	})
	if err != nil {
		f.analytics.Close()
		f.store.Close()
		return nil, err
	}

	f.Alerts, err = alert.New(cfg.I18n.Locale, opts.Presenter, log)
	if err != nil {
		f.Windows.Shutdown()
		f.analytics.Close()
		f.store.Close()
		return nil, fmt.Errorf("load alert messages: %w", err)
	}
	f.alertSub = f.Alerts.Watch(f.Windows)

	log.Info("Framework ready",
		"side_menu", cfg.SideMenu.Type,
		"headless", f.headless != nil,
		"authenticated", f.Session.IsAuthenticated())

	return f, nil
}

func loadConfig(opts Options) (config.Config, error) {
	if opts.Config != nil {
		if err := opts.Config.Validate(); err != nil {
			return config.Config{}, err
		}
		return *opts.Config, nil
	}
	return config.Load(opts.ConfigPath)
}

func configureLogging(cfg config.LogConfig) {
	if cfg.Path != "" {
		internal.SetLogPath(cfg.Path)
	}

	level := cfg.Level
	if env := os.Getenv(constants.LogLevelEnvVar); env != "" {
		level = env
	}
	internal.SetRawLogLevel(level)

	if constants.IsDevMode() {
		internal.SetInternalLogLevel(slog.LevelDebug)
	} else {
		internal.SetInternalLogLevel(slog.LevelError)
	}
}

// Headless returns the built-in platform, or nil when one was injected.
func (f *Framework) Headless() *headless.Platform {
	return f.headless
}

// Post runs fn on the UI goroutine.
func (f *Framework) Post(fn func()) {
	f.Loop.Post(fn)
}

// Run drives the UI loop until ctx is cancelled. When keys.device is
// configured, back and menu presses on that device are routed to the window
// manager.
func (f *Framework) Run(ctx context.Context) error {
	if f.Config.Keys.Device != "" {
		go f.listenKeys(ctx, f.Config.Keys.Device)
	}
	return f.Loop.Run(ctx)
}

func (f *Framework) listenKeys(ctx context.Context, device string) {
	err := internal.ListenKeys(ctx, internal.KeyConfig{DevicePath: device}, f.Loop, f.HandleKey)
	switch {
	case err == nil, ctx.Err() != nil:
	case internal.IsDeviceMissing(err):
		f.log.Warn("Navigation key device not found", "device", device)
	default:
		f.log.Error("Navigation key listener stopped", "device", device, "error", err)
	}
}

// Key is a hardware navigation key.
type Key = internal.HardwareKey

const (
	KeyBack = internal.KeyBack
	KeyMenu = internal.KeyMenu
)

// HandleKey applies a hardware key press. It must run on the UI goroutine.
func (f *Framework) HandleKey(key Key) {
	switch key {
	case KeyBack:
		if !f.Windows.Back() {
			f.log.Debug("Back press not handled")
		}
	case KeyMenu:
		f.Windows.ToggleDrawer()
	}
}

// Close tears the window manager down and releases the collaborators,
// including the log file. Call it on the UI goroutine, or after Run has
// returned.
func (f *Framework) Close() {
	f.alertSub.Cancel()
	f.Windows.Shutdown()
	f.analytics.Close()
	if err := f.store.Close(); err != nil {
		f.log.Error("Failed to close credential store", "error", err)
	}
	internal.CloseLogger()
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogPath sets the full path for the log file, including filename.
// Call before New to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
