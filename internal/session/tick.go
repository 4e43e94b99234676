package session

import (
	"fmt"
	"time"
)

// TickKind tells the observer how to render a tick.
type TickKind uint8

const (
	// TickSample carries a live input amplitude.
	TickSample TickKind = iota
	// TickReplay asks the observer to redraw from its recorded amplitude history.
	TickReplay
)

func (k TickKind) String() string {
	if k == TickReplay {
		return "replay"
	}
	return "sample"
}

// Tick is one timer wake-up forwarded to the observer.
type Tick struct {
	Elapsed   time.Duration
	State     State
	Kind      TickKind
	Amplitude int
}

// Millis returns the elapsed time in whole milliseconds.
func (t Tick) Millis() int64 {
	return t.Elapsed.Milliseconds()
}

// FormatElapsed renders d as MM:SS.hh.
func FormatElapsed(d time.Duration) string {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	minutes := ms / 60000
	seconds := (ms / 1000) % 60
	hundredths := (ms % 1000) / 10
	return fmt.Sprintf("%02d:%02d.%02d", minutes, seconds, hundredths)
}
