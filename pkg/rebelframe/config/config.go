// Package config loads rebelframe settings from a TOML file layered over
// built-in defaults.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
)

//go:embed defaults.toml
var defaultsTOML []byte

// Config is the full settings tree.
type Config struct {
	SideMenu SideMenuConfig `toml:"side_menu"`
	Log      LogConfig      `toml:"log"`
	Cloud    CloudConfig    `toml:"cloud"`
	Session  SessionConfig  `toml:"session"`
	I18n     I18nConfig     `toml:"i18n"`
	Keys     KeysConfig     `toml:"keys"`
}

type SideMenuConfig struct {
	Type  string `toml:"type"` // slide, parallax or native
	Width int    `toml:"width"`
}

type LogConfig struct {
	Level string `toml:"level"`
	Path  string `toml:"path"` // "-" logs to stdout only
}

type CloudConfig struct {
	BaseURL string   `toml:"base_url"`
	Timeout Duration `toml:"timeout"`
}

type SessionConfig struct {
	Service            string `toml:"service"` // credential namespace
	Salt               string `toml:"salt"`
	StorePath          string `toml:"store_path"` // empty keeps credentials in memory
	AuthenticatedStack string `toml:"authenticated_stack"`
	LoggedOutStack     string `toml:"logged_out_stack"`
}

type I18nConfig struct {
	Locale string `toml:"locale"`
}

type KeysConfig struct {
	Device string `toml:"device"` // evdev node; empty disables the key listener
}

// Duration decodes TOML strings such as "10s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() Config {
	var c Config
	if _, err := toml.Decode(string(defaultsTOML), &c); err != nil {
		panic(fmt.Sprintf("config: bad embedded defaults: %v", err))
	}
	return c
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	c := Default()
	md, err := toml.Decode(string(data), &c)
	if err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("parse config: unknown keys %s", strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Load reads the file at path. The REBELFRAME_CONFIG environment variable
// takes precedence over path. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if env := os.Getenv(constants.ConfigPathEnvVar); env != "" {
		path = env
	}
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

func (c Config) Validate() error {
	switch c.SideMenu.Type {
	case constants.SideMenuSlide, constants.SideMenuParallax, constants.SideMenuNative:
	default:
		return fmt.Errorf("side_menu.type %q: must be slide, parallax or native", c.SideMenu.Type)
	}
	if c.SideMenu.Width <= 0 {
		return fmt.Errorf("side_menu.width must be positive, got %d", c.SideMenu.Width)
	}
	if c.Cloud.Timeout.Duration <= 0 {
		return fmt.Errorf("cloud.timeout must be positive")
	}
	return nil
}
