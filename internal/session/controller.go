// Package session holds the record/playback state machine of a voice memo
// and the collaborator interfaces it drives.
package session

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/audiolibrelab/memocapture/internal/tick"
)

// Options configures a Controller.
type Options struct {
	// OutputPath is the single memo file recorded to and played from.
	OutputPath   string
	TickInterval time.Duration

	Permission PermissionGate
	Capture    CaptureBackend
	Playback   PlaybackBackend
	Observer   Observer
}

// Info describes the active session.
type Info struct {
	ID        string    `json:"id"`
	State     State     `json:"state"`
	StartTime time.Time `json:"start_time"`
	Path      string    `json:"path"`
}

// Controller owns the current State and mediates every transition.
//
// Requests that do not fit the current state are ignored. All transitions,
// including the one triggered by playback reaching its end, are serialized
// on a single mutex. The tick path only reads a snapshot of the state.
type Controller struct {
	path       string
	permission PermissionGate
	capture    CaptureBackend
	playback   PlaybackBackend
	timer      *tick.Timer

	mu     sync.Mutex
	player PlaybackHandle

	view     sync.RWMutex
	state    State
	recorder CaptureHandle
	session  *Info
	observer Observer
}

// NewController creates an idle controller.
func NewController(opts Options) (*Controller, error) {
	if opts.OutputPath == "" {
		return nil, fmt.Errorf("output path is required")
	}
	if opts.Permission == nil || opts.Capture == nil || opts.Playback == nil {
		return nil, fmt.Errorf("permission gate, capture and playback backends are required")
	}

	interval := opts.TickInterval
	if interval == 0 {
		interval = tick.DefaultInterval
	}

	c := &Controller{
		path:       opts.OutputPath,
		permission: opts.Permission,
		capture:    opts.Capture,
		playback:   opts.Playback,
		state:      StateIdle,
		observer:   nopObserver{},
	}
	if opts.Observer != nil {
		c.observer = opts.Observer
	}

	timer, err := tick.New(interval, c.onTick)
	if err != nil {
		return nil, fmt.Errorf("failed to create tick timer: %w", err)
	}
	c.timer = timer

	return c, nil
}

// SetObserver replaces the observer. A nil observer discards all output.
func (c *Controller) SetObserver(o Observer) {
	c.view.Lock()
	defer c.view.Unlock()

	if o == nil {
		o = nopObserver{}
	}
	c.observer = o
}

// State returns the current state.
func (c *Controller) State() State {
	c.view.RLock()
	defer c.view.RUnlock()
	return c.state
}

// Session returns a copy of the active session, or nil when idle.
func (c *Controller) Session() *Info {
	c.view.RLock()
	defer c.view.RUnlock()

	if c.session == nil {
		return nil
	}
	info := *c.session
	return &info
}

// TimerArmed reports whether the tick timer is running.
func (c *Controller) TimerArmed() bool {
	return c.timer.Armed()
}

// Path returns the memo file path.
func (c *Controller) Path() string {
	return c.path
}

// RequestRecordToggle starts a recording when idle and stops it when
// recording. It is ignored while playing.
func (c *Controller) RequestRecordToggle() {
	if ask, withRationale := c.toggleRecording(); ask {
		c.permission.Request(withRationale)
	}
}

func (c *Controller) toggleRecording() (ask bool, withRationale bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch state := c.State(); state {
	case StateIdle:
		status := c.permission.Check()
		if status == PermissionGranted {
			c.startRecordingLocked()
			return false, false
		}
		slog.Info("Record permission required", "status", status)
		return true, status == PermissionNeedsRationale
	case StateRecording:
		c.stopLocked("user")
	default:
		slog.Debug("Ignoring record request", "state", state)
	}
	return false, false
}

// OnPermissionResult receives the outcome of PermissionGate.Request.
func (c *Controller) OnPermissionResult(granted bool) {
	if !granted {
		slog.Warn("Record permission denied")
		c.currentObserver().OnFailure(ErrPermissionDenied)
		c.permission.Refused()
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if state := c.State(); state != StateIdle {
		slog.Debug("Ignoring permission grant", "state", state)
		return
	}
	c.startRecordingLocked()
}

// RequestPlay starts playing the memo. Only valid when idle.
func (c *Controller) RequestPlay() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state := c.State(); state != StateIdle {
		slog.Debug("Ignoring play request", "state", state)
		return
	}

	handle, err := c.playback.OpenPlayback(c.path)
	if err != nil {
		c.failLocked(&BackendOpenError{Op: "playback", Path: c.path, Err: err})
		return
	}

	c.player = handle
	info := c.enter(StatePlaying, nil)
	c.timer.Start()

	slog.Info("Playback started", "session", info.ID, "path", c.path)
	c.notify(StateChange{From: StateIdle, To: StatePlaying, SessionID: info.ID})

	handle.OnCompletion(func() {
		go c.completePlayback(handle)
	})
}

// RequestStop stops playback. Only valid when playing.
func (c *Controller) RequestStop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if state := c.State(); state != StatePlaying {
		slog.Debug("Ignoring stop request", "state", state)
		return
	}
	c.stopLocked("user")
}

// Close ends any active session and releases its backend.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.State() != StateIdle {
		c.stopLocked("close")
	}
}

func (c *Controller) completePlayback(handle PlaybackHandle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.player != handle {
		slog.Debug("Ignoring completion of a released playback")
		return
	}
	c.stopLocked("completed")
}

func (c *Controller) startRecordingLocked() {
	handle, err := c.capture.OpenCapture(c.path)
	if err != nil {
		c.failLocked(&BackendOpenError{Op: "capture", Path: c.path, Err: err})
		return
	}

	info := c.enter(StateRecording, handle)
	c.timer.Start()

	slog.Info("Recording started", "session", info.ID, "path", c.path)
	c.notify(StateChange{From: StateIdle, To: StateRecording, SessionID: info.ID})
}

func (c *Controller) enter(state State, recorder CaptureHandle) Info {
	info := &Info{
		ID:        uuid.NewString(),
		State:     state,
		StartTime: time.Now(),
		Path:      c.path,
	}

	c.view.Lock()
	c.state = state
	c.recorder = recorder
	c.session = info
	c.view.Unlock()

	return *info
}

// stopLocked returns to idle. The timer is disarmed before the handle is
// released so an in-flight tick never samples a closed recorder.
func (c *Controller) stopLocked(reason string) {
	c.timer.Stop()

	c.view.Lock()
	from := c.state
	recorder := c.recorder
	info := c.session
	c.state = StateIdle
	c.recorder = nil
	c.session = nil
	c.view.Unlock()

	player := c.player
	c.player = nil

	var err error
	switch {
	case recorder != nil:
		err = recorder.Close()
	case player != nil:
		err = player.Close()
	}

	var id string
	var duration time.Duration
	if info != nil {
		id = info.ID
		duration = time.Since(info.StartTime)
	}
	if err != nil {
		slog.Warn("Failed to release backend", "session", id, "state", from, "error", err)
	}
	slog.Info("Session ended", "session", id, "state", from, "reason", reason, "duration", duration)

	c.notify(StateChange{From: from, To: StateIdle, SessionID: id})
}

func (c *Controller) failLocked(err error) {
	slog.Error("Transition aborted", "error", err)
	c.currentObserver().OnFailure(err)
}

func (c *Controller) notify(change StateChange) {
	c.currentObserver().OnStateChanged(change)
}

func (c *Controller) currentObserver() Observer {
	c.view.RLock()
	defer c.view.RUnlock()
	return c.observer
}

func (c *Controller) onTick(elapsed time.Duration) {
	c.view.RLock()
	state := c.state
	recorder := c.recorder
	observer := c.observer
	c.view.RUnlock()

	switch state {
	case StateRecording:
		amplitude := 0
		if recorder != nil {
			amplitude = recorder.CurrentAmplitude()
		}
		observer.OnTick(Tick{Elapsed: elapsed, State: state, Kind: TickSample, Amplitude: amplitude})
	case StatePlaying:
		observer.OnTick(Tick{Elapsed: elapsed, State: state, Kind: TickReplay})
	}
}
