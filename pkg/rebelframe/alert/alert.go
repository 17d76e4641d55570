// Package alert turns failed window transitions into localized messages
// for the user.
package alert

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/internal"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
)

//go:embed locales/*.toml
var locales embed.FS

// Presenter shows an alert dialog.
type Presenter interface {
	Alert(title, message string)
}

// PresenterFunc adapts a function to a Presenter.
type PresenterFunc func(title, message string)

func (f PresenterFunc) Alert(title, message string) { f(title, message) }

// LogPresenter writes alerts to a logger, for headless runs.
type LogPresenter struct {
	Logger *slog.Logger
}

func (p LogPresenter) Alert(title, message string) {
	log := p.Logger
	if log == nil {
		log = internal.GetLogger()
	}
	log.Warn(title, "message", message)
}

// NewBundle loads the built-in message files.
func NewBundle() (*i18n.Bundle, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := locales.ReadDir("locales")
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(locales, "locales/"+e.Name()); err != nil {
			return nil, fmt.Errorf("load %s: %w", e.Name(), err)
		}
	}
	return bundle, nil
}

// Alerter presents failed transitions reported by a window manager.
type Alerter struct {
	localizer *i18n.Localizer
	presenter Presenter
	log       *slog.Logger
}

// New creates an Alerter for the given locale, falling back to English.
func New(locale string, presenter Presenter, log *slog.Logger) (*Alerter, error) {
	bundle, err := NewBundle()
	if err != nil {
		return nil, err
	}
	if presenter == nil {
		presenter = LogPresenter{Logger: log}
	}
	if log == nil {
		log = internal.GetInternalLogger()
	}
	return &Alerter{
		localizer: i18n.NewLocalizer(bundle, locale, language.English.String()),
		presenter: presenter,
		log:       log.With("component", "alert"),
	}, nil
}

// Watch subscribes to every event of m. Cancel the returned subscription to
// stop.
func (a *Alerter) Watch(m *windowmanager.Manager) *windowmanager.Subscription {
	return m.Subscribe("", a.Handle)
}

// Handle presents ev when it reports a failure.
func (a *Alerter) Handle(ev windowmanager.Event) {
	if !ev.Failed() {
		return
	}

	a.log.Debug("Transition failed", "kind", ev.Kind, "error", ev.Err)
	a.presenter.Alert(a.Message("AlertTitle", nil), a.describe(ev))
}

func (a *Alerter) describe(ev windowmanager.Event) string {
	title := a.Message("Untitled", nil)
	if ev.Screen != nil && ev.Screen.Title != "" {
		title = ev.Screen.Title
	}

	switch ev.Kind {
	case constants.EventClose:
		return a.Message("CloseFailed", map[string]any{"Title": title})
	case constants.EventDrawerOpen, constants.EventDrawerClose:
		return a.Message("MenuFailed", nil)
	default:
		return a.Message("OpenFailed", map[string]any{"Title": title})
	}
}

// Message localizes id. Unknown ids come back as the id itself.
func (a *Alerter) Message(id string, data map[string]any) string {
	msg, err := a.localizer.Localize(&i18n.LocalizeConfig{MessageID: id, TemplateData: data})
	if err != nil {
		a.log.Warn("Missing translation", "id", id, "error", err)
		return id
	}
	return msg
}
