package internal

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/holoplot/go-evdev"
)

// HardwareKey is a navigation key read from an input device.
type HardwareKey int

const (
	KeyBack HardwareKey = iota + 1
	KeyMenu
)

func (k HardwareKey) GetName() string {
	switch k {
	case KeyBack:
		return "Back"
	case KeyMenu:
		return "Menu"
	default:
		return "Unknown"
	}
}

// KeyConfig describes the device to read and the codes mapped to
// navigation keys. Zero codes fall back to KEY_BACK and KEY_MENU.
type KeyConfig struct {
	DevicePath string
	BackCode   evdev.EvCode
	MenuCode   evdev.EvCode
}

// MapKeyEvent translates a raw input event into a navigation key. Only key
// presses are reported; releases and repeats are ignored.
func (c KeyConfig) MapKeyEvent(ev *evdev.InputEvent) (HardwareKey, bool) {
	if ev == nil || ev.Type != evdev.EV_KEY || ev.Value != 1 {
		return 0, false
	}

	back, menu := c.BackCode, c.MenuCode
	if back == 0 {
		back = evdev.KEY_BACK
	}
	if menu == 0 {
		menu = evdev.KEY_MENU
	}

	switch ev.Code {
	case back:
		return KeyBack, true
	case menu:
		return KeyMenu, true
	}
	return 0, false
}

// ListenKeys reads key presses from the configured device and posts the
// mapped handler call onto loop. It blocks until ctx is cancelled or the
// device fails.
func ListenKeys(ctx context.Context, cfg KeyConfig, loop *Loop, handle func(HardwareKey)) error {
	dev, err := evdev.Open(cfg.DevicePath)
	if err != nil {
		return fmt.Errorf("open input device %s: %w", cfg.DevicePath, err)
	}

	name, _ := dev.Name()
	log := GetInternalLogger().With("device", cfg.DevicePath, "name", name)
	log.Debug("Listening for navigation keys")

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			// Unblocks ReadOne.
			dev.Close()
		case <-stop:
		}
	}()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			dev.Close()
			return fmt.Errorf("read input device %s: %w", cfg.DevicePath, err)
		}

		key, ok := cfg.MapKeyEvent(ev)
		if !ok {
			continue
		}

		log.Debug("Navigation key pressed", slog.String("key", key.GetName()))
		loop.Post(func() { handle(key) })
	}
}

// IsDeviceMissing reports whether err came from a device path that does not
// exist, which is the normal case on development machines.
func IsDeviceMissing(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
