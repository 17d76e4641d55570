// Package constants defines shared constants, enums, and environment
// variable names used throughout the rebelframe packages.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables read by rebelframe.
const (
	EnvironmentEnvVar = "ENVIRONMENT"
	ConfigPathEnvVar  = "REBELFRAME_CONFIG"
	LogLevelEnvVar    = "REBELFRAME_LOG_LEVEL"
	BackDeviceEnvVar  = "REBELFRAME_BACK_DEVICE"
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
func IsDevMode() bool {
	return os.Getenv(EnvironmentEnvVar) == Development
}

// Placement is the manner in which a screen is inserted into the
// navigation topology.
type Placement int

const (
	PlacementTopLevel Placement = iota
	PlacementStacked
	PlacementModal
	PlacementDrawerHosted
	PlacementTabHosted
)

func (p Placement) GetName() string {
	switch p {
	case PlacementTopLevel:
		return "TopLevel"
	case PlacementStacked:
		return "Stacked"
	case PlacementModal:
		return "Modal"
	case PlacementDrawerHosted:
		return "DrawerHosted"
	case PlacementTabHosted:
		return "TabHosted"
	default:
		return "Unknown"
	}
}

// Valid reports whether p is one of the known placements.
func (p Placement) Valid() bool {
	return p >= PlacementTopLevel && p <= PlacementTabHosted
}

// EventKind names a notification emitted by the window manager.
type EventKind string

const (
	EventOpen        EventKind = "open"
	EventClose       EventKind = "close"
	EventDrawerOpen  EventKind = "navbaropen"
	EventDrawerClose EventKind = "navbarclose"
)

// Side menu strategy names accepted by the side_menu.type setting.
const (
	SideMenuSlide    = "slide"
	SideMenuParallax = "parallax"
	SideMenuNative   = "native"
)

// Defaults shared by the drawer strategies and the cloud transport.
const (
	DefaultDrawerWidth          = 240
	DefaultParallaxContentScale = 0.7
	DefaultParallaxFactor       = 5
	DefaultRequestTimeout       = 10 * time.Second
)
