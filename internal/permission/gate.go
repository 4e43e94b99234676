package permission

import (
	"log/slog"
	"sync"

	"github.com/audiolibrelab/memocapture/internal/session"
)

// Gate implements session.PermissionGate on top of a Store and a Prompter.
type Gate struct {
	store    *Store
	prompter Prompter

	mu      sync.Mutex
	handler func(granted bool)

	// run executes the asynchronous part of Request and Refused.
	run func(func())
}

func NewGate(store *Store, prompter Prompter) *Gate {
	return &Gate{
		store:    store,
		prompter: prompter,
		run:      func(f func()) { go f() },
	}
}

// Bind sets the receiver of request outcomes, normally
// session.Controller.OnPermissionResult.
func (g *Gate) Bind(handler func(granted bool)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handler = handler
}

func (g *Gate) Check() session.PermissionStatus {
	state, err := g.store.Load()
	if err != nil {
		slog.Warn("Cannot load permission state", "error", err)
		return session.PermissionDenied
	}

	switch {
	case state.Granted():
		return session.PermissionGranted
	case state.Denials == 1:
		return session.PermissionNeedsRationale
	default:
		return session.PermissionDenied
	}
}

func (g *Gate) Request(withRationale bool) {
	g.run(func() {
		if granted, answered := g.ask(withRationale); answered {
			g.deliver(granted)
		}
	})
}

func (g *Gate) Refused() {
	g.run(func() {
		state, err := g.store.Load()
		if err != nil {
			slog.Warn("Cannot load permission state", "error", err)
		}

		if err == nil && !state.Blocked() {
			if granted, answered := g.ask(true); answered {
				g.deliver(granted)
			}
			return
		}
		g.prompter.Notify(settingsPrompt(g.store.Path()))
	})
}

// ask runs the dialogs. answered is false when the user cancelled the
// rationale or a prompt could not be shown.
func (g *Gate) ask(withRationale bool) (granted bool, answered bool) {
	if withRationale {
		ok, err := g.prompter.Confirm(rationalePrompt())
		if err != nil {
			slog.Warn("Rationale prompt failed", "error", err)
			return false, false
		}
		if !ok {
			slog.Debug("Rationale dismissed")
			return false, false
		}
	}

	state, err := g.store.Load()
	if err != nil {
		slog.Warn("Cannot load permission state", "error", err)
		return false, true
	}
	if state.Blocked() {
		slog.Info("Record permission is blocked, not prompting")
		return false, true
	}

	ok, err := g.prompter.Confirm(requestPrompt())
	if err != nil {
		// Nobody answered, nothing to remember.
		slog.Warn("Permission prompt failed", "error", err)
		return false, false
	}

	if _, err := g.store.Update(func(st *State) { recordAnswer(st, ok) }); err != nil {
		slog.Warn("Cannot persist permission decision", "error", err)
	}
	return ok, true
}

func (g *Gate) deliver(granted bool) {
	g.mu.Lock()
	handler := g.handler
	g.mu.Unlock()

	if handler == nil {
		slog.Warn("Permission result has no receiver", "granted", granted)
		return
	}
	handler(granted)
}
