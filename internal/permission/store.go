// Package permission implements the record-audio permission gate: a
// persisted grant decision, the rationale/settings flow after a denial and
// an interactive terminal prompter.
package permission

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	decisionUnset   = "unset"
	decisionGranted = "granted"
	decisionDenied  = "denied"
)

// blockedAfter is the number of denials after which the gate stops asking.
const blockedAfter = 2

// State is the persisted permission decision.
type State struct {
	RecordAudio string    `yaml:"record_audio"`
	Denials     int       `yaml:"denials"`
	UpdatedAt   time.Time `yaml:"updated_at,omitempty"`
}

func (s State) Granted() bool {
	return s.RecordAudio == decisionGranted
}

// Blocked reports whether the user refused often enough that only the
// settings can grant the permission.
func (s State) Blocked() bool {
	return !s.Granted() && s.Denials >= blockedAfter
}

func (s State) String() string {
	switch {
	case s.Granted():
		return decisionGranted
	case s.Blocked():
		return "blocked"
	case s.Denials > 0:
		return decisionDenied
	default:
		return decisionUnset
	}
}

// Store persists the permission state as yaml.
type Store struct {
	path string
	mu   sync.Mutex
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored state. A missing file is the unset state.
func (s *Store) Load() (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() (State, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return State{RecordAudio: decisionUnset}, nil
	}
	if err != nil {
		return State{}, fmt.Errorf("error reading permission state %s: %w", s.path, err)
	}

	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("error parsing permission state %s: %w", s.path, err)
	}
	if state.RecordAudio == "" {
		state.RecordAudio = decisionUnset
	}
	return state, nil
}

// Save replaces the stored state.
func (s *Store) Save(state State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(state)
}

func (s *Store) saveLocked(state State) error {
	state.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("error marshaling permission state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create permission state directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("error writing permission state %s: %w", s.path, err)
	}
	return nil
}

// Update applies fn to the stored state and persists the result.
func (s *Store) Update(fn func(*State)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadLocked()
	if err != nil {
		return State{}, err
	}
	fn(&state)
	if err := s.saveLocked(state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Grant allows recording.
func (s *Store) Grant() error {
	_, err := s.Update(func(st *State) {
		st.RecordAudio = decisionGranted
		st.Denials = 0
	})
	return err
}

// Revoke refuses recording and blocks further prompts.
func (s *Store) Revoke() error {
	_, err := s.Update(func(st *State) {
		st.RecordAudio = decisionDenied
		st.Denials = blockedAfter
	})
	return err
}

// Reset forgets every decision so the next recording asks again.
func (s *Store) Reset() error {
	_, err := s.Update(func(st *State) {
		*st = State{RecordAudio: decisionUnset}
	})
	return err
}

func recordAnswer(st *State, granted bool) {
	if granted {
		st.RecordAudio = decisionGranted
		st.Denials = 0
		return
	}
	st.RecordAudio = decisionDenied
	st.Denials++
}
