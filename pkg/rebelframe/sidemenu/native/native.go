// Package native implements the side menu on top of the platform's own
// drawer layout.
package native

import (
	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
)

// Drawer hosts content by moving its views into the drawer's center view,
// so swapping content is not animated.
type Drawer struct {
	surface  windowmanager.DrawerSurface
	listener windowmanager.DrawerListener
	open     bool
	ready    bool
	torn     bool
}

func New(surface windowmanager.DrawerSurface) *Drawer {
	return &Drawer{surface: surface}
}

func Factory(surface windowmanager.DrawerSurface) windowmanager.Drawer {
	return New(surface)
}

func (d *Drawer) Setup(layout windowmanager.DrawerLayout, listener windowmanager.DrawerListener, done func(error)) {
	layout.Style = constants.SideMenuNative
	layout.ReparentContent = true
	layout.GestureOpen = true
	layout.GestureClose = true

	d.listener = listener
	d.surface.Present(layout, d.observe, func(err error) {
		if err == nil && !d.torn {
			d.ready = true
		}
		done(err)
	})
}

func (d *Drawer) observe(open bool) {
	if d.torn || open == d.open {
		return
	}
	d.open = open
	if open {
		d.listener.DrawerOpened()
		return
	}
	d.listener.DrawerClosed()
}

func (d *Drawer) SetContent(s *windowmanager.Screen, done func(error)) {
	if !d.ready || d.torn {
		done(windowmanager.ErrDrawerNotActive)
		return
	}
	d.surface.SetCenter(s, false, done)
}

func (d *Drawer) Toggle() {
	if !d.ready || d.torn {
		return
	}
	d.surface.Slide(!d.open, nil)
}

func (d *Drawer) IsOpen() bool {
	return d.open
}

func (d *Drawer) Teardown() {
	if d.torn {
		return
	}
	d.torn = true
	d.ready = false
	d.open = false
	d.surface.Dismiss()
}
