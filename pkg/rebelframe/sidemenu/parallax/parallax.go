// Package parallax implements the scaling side menu: the content shrinks
// and shifts aside to reveal the menu underneath.
package parallax

import (
	"github.com/rebelframe/rebelframe/pkg/rebelframe/constants"
	"github.com/rebelframe/rebelframe/pkg/rebelframe/windowmanager"
)

// Drawer only opens through Toggle; gestures are disabled, so it keeps its
// own open flag and reports transitions when its own slides finish.
type Drawer struct {
	surface  windowmanager.DrawerSurface
	listener windowmanager.DrawerListener
	scale    float64
	open     bool
	ready    bool
	torn     bool
}

func New(surface windowmanager.DrawerSurface) *Drawer {
	return &Drawer{surface: surface, scale: constants.DefaultParallaxContentScale}
}

func Factory(surface windowmanager.DrawerSurface) windowmanager.Drawer {
	return New(surface)
}

func (d *Drawer) Setup(layout windowmanager.DrawerLayout, listener windowmanager.DrawerListener, done func(error)) {
	layout.Style = constants.SideMenuParallax
	layout.ContentScale = d.scale
	layout.GestureOpen = false
	layout.GestureClose = false

	d.listener = listener
	d.surface.Present(layout, func(bool) {}, func(err error) {
		if err == nil && !d.torn {
			d.ready = true
		}
		done(err)
	})
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

	// Flip first so a second toggle during the animation reverses it.
	d.open = !d.open
	opening := d.open
	d.surface.Slide(opening, func(err error) {
		if d.torn {
			return
		}
		if err != nil {
			d.open = !opening
			return
		}
		if opening {
			d.listener.DrawerOpened()
		} else {
			d.listener.DrawerClosed()
		}
	})
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
