package session

import (
	"errors"
	"sync"
)

type fakeGate struct {
	mu       sync.Mutex
	status   PermissionStatus
	requests []bool
	refusals int
}

func (g *fakeGate) Check() PermissionStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

func (g *fakeGate) Request(withRationale bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, withRationale)
}

func (g *fakeGate) Refused() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.refusals++
}

type fakeRecorder struct {
	mu        sync.Mutex
	amplitude int
	closed    int
}

func (r *fakeRecorder) CurrentAmplitude() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.amplitude
}

func (r *fakeRecorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed++
	return nil
}

type fakeCapture struct {
	mu        sync.Mutex
	err       error
	amplitude int
	opened    []*fakeRecorder
	paths     []string
}

func (c *fakeCapture) OpenCapture(path string) (CaptureHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paths = append(c.paths, path)
	if c.err != nil {
		return nil, c.err
	}
	r := &fakeRecorder{amplitude: c.amplitude}
	c.opened = append(c.opened, r)
	return r, nil
}

// live counts handles that were opened but not closed.
func (c *fakeCapture) live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, r := range c.opened {
		r.mu.Lock()
		if r.closed == 0 {
			n++
		}
		r.mu.Unlock()
	}
	return n
}

type fakePlayer struct {
	mu         sync.Mutex
	onComplete func()
	closed     int
}

func (p *fakePlayer) OnCompletion(fn func()) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.onComplete = fn
}

func (p *fakePlayer) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	return nil
}

func (p *fakePlayer) closeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// finish simulates the backend reaching the end of the file.
func (p *fakePlayer) finish() {
	p.mu.Lock()
	fn := p.onComplete
	p.mu.Unlock()
	if fn != nil {
		fn()
	}
}

type fakePlayback struct {
	mu     sync.Mutex
	err    error
	opened []*fakePlayer
}

func (b *fakePlayback) OpenPlayback(string) (PlaybackHandle, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	p := &fakePlayer{}
	b.opened = append(b.opened, p)
	return p, nil
}

func (b *fakePlayback) last() *fakePlayer {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.opened[len(b.opened)-1]
}

type fakeObserver struct {
	mu       sync.Mutex
	changes  []StateChange
	ticks    []Tick
	failures []error
}

func (o *fakeObserver) OnStateChanged(change StateChange) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.changes = append(o.changes, change)
}

func (o *fakeObserver) OnTick(t Tick) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ticks = append(o.ticks, t)
}

func (o *fakeObserver) OnFailure(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failures = append(o.failures, err)
}

func (o *fakeObserver) stateChanges() []StateChange {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]StateChange(nil), o.changes...)
}

func (o *fakeObserver) tickCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.ticks)
}

func (o *fakeObserver) lastTick() Tick {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.ticks[len(o.ticks)-1]
}

func (o *fakeObserver) failureList() []error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]error(nil), o.failures...)
}

var errDevice = errors.New("device busy")
