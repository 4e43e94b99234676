package session

import (
	"fmt"
	"strings"
)

// State is the mode of a session controller.
type State uint8

const (
	StateIdle State = iota
	StateRecording
	StatePlaying
)

var AllStates = []State{StateIdle, StateRecording, StatePlaying}

func (s State) String() string {
	v, err := s.MarshalText()
	if err != nil {
		return fmt.Sprintf("illegal-state-%d", s)
	}
	return string(v)
}

func (s State) MarshalText() ([]byte, error) {
	switch s {
	case StateIdle:
		return []byte("idle"), nil
	case StateRecording:
		return []byte("recording"), nil
	case StatePlaying:
		return []byte("playing"), nil
	default:
		return nil, fmt.Errorf("illegal state: %d", s)
	}
}

func (s *State) UnmarshalText(text []byte) error {
	switch strings.TrimSpace(strings.ToLower(string(text))) {
	case "idle":
		*s = StateIdle
	case "recording":
		*s = StateRecording
	case "playing":
		*s = StatePlaying
	default:
		return fmt.Errorf("illegal state: %s", text)
	}
	return nil
}

// StateChange is reported to the observer after every completed transition.
type StateChange struct {
	From      State
	To        State
	SessionID string
}

// Affordances describes which controls a UI should offer in a given state.
type Affordances struct {
	RecordLabel   string
	RecordEnabled bool
	PlayEnabled   bool
	StopEnabled   bool
}

// AffordancesFor returns the control layout for state s.
func AffordancesFor(s State) Affordances {
	switch s {
	case StateRecording:
		return Affordances{RecordLabel: "stop", RecordEnabled: true}
	case StatePlaying:
		return Affordances{RecordLabel: "record", StopEnabled: true}
	default:
		return Affordances{RecordLabel: "record", RecordEnabled: true, PlayEnabled: true}
	}
}
