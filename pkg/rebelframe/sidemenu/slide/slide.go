// Package slide implements the slide-in panel side menu.
package slide

import (
	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
)

// Drawer slides the menu panel in from the left. The panel may also be
// dragged open or closed; notifications follow the surface either way.
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

// Factory adapts New to windowmanager.DrawerFactory.
func Factory(surface windowmanager.DrawerSurface) windowmanager.Drawer {
	return New(surface)
}

func (d *Drawer) Setup(layout windowmanager.DrawerLayout, listener windowmanager.DrawerListener, done func(error)) {
	layout.Style = constants.SideMenuSlide
	layout.ParallaxFactor = constants.DefaultParallaxFactor
	layout.Shadow = true
	layout.Stretch = false
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
	} else {
		d.listener.DrawerClosed()
	}
}

func (d *Drawer) SetContent(s *windowmanager.Screen, done func(error)) {
	if !d.ready || d.torn {
		done(windowmanager.ErrDrawerNotActive)
		return
	}
	d.surface.SetCenter(s, true, done)
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
