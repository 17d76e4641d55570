package tracker

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memory struct {
	events []string
	props  []map[string]string
}

func (m *memory) Track(event string, props map[string]string) {
	m.events = append(m.events, event)
	m.props = append(m.props, props)
}

func TestLogWritesEvent(t *testing.T) {
	var buf bytes.Buffer
	l := NewLog(slog.New(slog.NewJSONHandler(&buf, nil)))

	l.Track("screen_open", map[string]string{"title": "Home"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "screen_open", line["event"])
	assert.Equal(t, "Home", line["title"])
	assert.Equal(t, "tracker", line["component"])
}

func TestMulti(t *testing.T) {
	a, b := &memory{}, &memory{}
	var calls int

	Multi{a, b, Func(func(string, map[string]string) { calls++ })}.Track("login", nil)

	assert.Equal(t, []string{"login"}, a.events)
	assert.Equal(t, []string{"login"}, b.events)
	assert.Equal(t, 1, calls)
}

func TestAsyncDeliversInOrder(t *testing.T) {
	sink := &memory{}
	a := NewAsync(sink, 8)

	props := map[string]string{"n": "1"}
	a.Track("first", props)
	props["n"] = "changed"
	a.Track("second", nil)
	a.Close()

	assert.Equal(t, []string{"first", "second"}, sink.events)
	assert.Equal(t, "1", sink.props[0]["n"])
	assert.Zero(t, a.Dropped())
}

func TestAsyncDropsWhenFull(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	a := NewAsync(Func(func(string, map[string]string) {
		select {
		case started <- struct{}{}:
		default:
		}
		<-release
	}), 1)

	a.Track("blocking", nil)
	<-started
	a.Track("queued", nil)
	a.Track("dropped", nil)
	close(release)
	a.Close()

	assert.Equal(t, int64(1), a.Dropped())
}

func TestAsyncAfterClose(t *testing.T) {
	a := NewAsync(&memory{}, 1)
	a.Close()
	a.Close()

	a.Track("late", nil)
	assert.Equal(t, int64(1), a.Dropped())
}

func TestHelpers(t *testing.T) {
	sink := &memory{}

	Screen(sink, "Home")
	Event(sink, "menu", "toggle", "", 0)
	Timing(sink, "startup", 1500*time.Millisecond)

	assert.Equal(t, []string{"screen_view", "event", "timing"}, sink.events)
	assert.Equal(t, "Home", sink.props[0]["screen"])
	assert.Equal(t, "1", sink.props[1]["value"])
	assert.Equal(t, "1500", sink.props[2]["ms"])
}
