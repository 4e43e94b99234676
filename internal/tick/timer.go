// Package tick provides a restartable periodic clock that reports the
// elapsed time since it was started.
package tick

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultInterval is the cadence used for sampling and elapsed-time display.
const DefaultInterval = 100 * time.Millisecond

// ErrInvalidInterval is returned when a timer is built with a non-positive cadence.
var ErrInvalidInterval = errors.New("tick interval must be positive")

// Func receives the elapsed time since Start on every tick.
type Func func(elapsed time.Duration)

// Timer invokes its callback at a fixed cadence while armed.
//
// Callbacks run on the timer's own goroutine. Stop does not return before
// that goroutine has exited, so no callback is ever invoked after Stop
// returns. Stop and Start must not be called from inside the callback.
type Timer struct {
	interval time.Duration
	onTick   Func

	mu    sync.Mutex
	stop  chan struct{}
	done  chan struct{}
	armed atomic.Bool
}

// New creates a disarmed timer.
func New(interval time.Duration, onTick Func) (*Timer, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if onTick == nil {
		return nil, errors.New("tick callback is required")
	}
	return &Timer{interval: interval, onTick: onTick}, nil
}

// Start arms the timer. Starting an armed timer rearms it from zero.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()

	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.armed.Store(true)
	go t.run(time.Now(), t.stop, t.done)
}

// Stop disarms the timer and waits for an in-flight callback to finish.
func (t *Timer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopLocked()
}

// Armed reports whether the timer is currently running.
func (t *Timer) Armed() bool {
	return t.armed.Load()
}

func (t *Timer) stopLocked() {
	if t.stop == nil {
		return
	}
	close(t.stop)
	<-t.done
	t.stop = nil
	t.done = nil
	t.armed.Store(false)
}

func (t *Timer) run(start time.Time, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			// A tick and a stop can be ready at the same time; stop wins.
			select {
			case <-stop:
				return
			default:
			}
			t.onTick(time.Since(start))
		}
	}
}
