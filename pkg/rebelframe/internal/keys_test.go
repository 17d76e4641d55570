package internal

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
)

func TestMapKeyEvent(t *testing.T) {
	custom := KeyConfig{BackCode: evdev.KEY_ESC, MenuCode: evdev.KEY_F1}

	tests := []struct {
		name string
		cfg  KeyConfig
		ev   *evdev.InputEvent
		want HardwareKey
		ok   bool
	}{
		{"back press", KeyConfig{}, &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_BACK, Value: 1}, KeyBack, true},
		{"menu press", KeyConfig{}, &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_MENU, Value: 1}, KeyMenu, true},
		{"release ignored", KeyConfig{}, &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_BACK, Value: 0}, 0, false},
		{"repeat ignored", KeyConfig{}, &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_BACK, Value: 2}, 0, false},
		{"other type", KeyConfig{}, &evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.KEY_BACK, Value: 1}, 0, false},
		{"unmapped key", KeyConfig{}, &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_A, Value: 1}, 0, false},
		{"custom back", custom, &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_ESC, Value: 1}, KeyBack, true},
		{"default replaced", custom, &evdev.InputEvent{Type: evdev.EV_KEY, Code: evdev.KEY_BACK, Value: 1}, 0, false},
		{"nil", KeyConfig{}, nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.cfg.MapKeyEvent(tt.ev)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestListenKeysMissingDevice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "event99")
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	err := ListenKeys(context.Background(), KeyConfig{DevicePath: path}, NewLoop(), func(HardwareKey) {})
	assert.True(t, IsDeviceMissing(err))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, "DEBUG", ParseLevel("Debug").String())
	assert.Equal(t, "WARN", ParseLevel(" warning ").String())
	assert.Equal(t, "ERROR", ParseLevel("error").String())
	assert.Equal(t, "INFO", ParseLevel("verbose").String())
}
