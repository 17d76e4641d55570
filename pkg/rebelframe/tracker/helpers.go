package tracker

import (
	"strconv"
	"time"
)

// Screen records a screen view.
func Screen(s Sink, name string) {
	s.Track("screen_view", map[string]string{"screen": name})
}

// Event records a categorized user action. Empty action and label are sent
// as empty strings; a zero value counts as one.
func Event(s Sink, category, action, label string, value int) {
	if value == 0 {
		value = 1
	}
	s.Track("event", map[string]string{
		"category": category,
		"action":   action,
		"label":    label,
		"value":    strconv.Itoa(value),
	})
}

// Timing records how long something took, in milliseconds.
func Timing(s Sink, category string, d time.Duration) {
	s.Track("timing", map[string]string{
		"category": category,
		"ms":       strconv.FormatInt(d.Milliseconds(), 10),
	})
}
