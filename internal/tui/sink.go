package tui

import (
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/audiolibrelab/memocapture/internal/permission"
	"github.com/audiolibrelab/memocapture/internal/session"
)

var errUIClosed = errors.New("terminal UI is not running")

// Sink forwards controller events and permission dialogs to a running
// program. It implements session.Observer and permission.Prompter.
type Sink struct {
	mu   sync.RWMutex
	send func(tea.Msg)

	done     chan struct{}
	doneOnce sync.Once
}

func NewSink() *Sink {
	return &Sink{done: make(chan struct{})}
}

// Attach starts forwarding to p.
func (s *Sink) Attach(p *tea.Program) {
	s.attach(p.Send)
}

func (s *Sink) attach(send func(tea.Msg)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.send = send
}

// Detach stops forwarding and releases pending prompts.
func (s *Sink) Detach() {
	s.doneOnce.Do(func() { close(s.done) })
	s.mu.Lock()
	s.send = nil
	s.mu.Unlock()
}

func (s *Sink) post(msg tea.Msg) bool {
	s.mu.RLock()
	send := s.send
	s.mu.RUnlock()

	if send == nil {
		return false
	}
	send(msg)
	return true
}

func (s *Sink) OnStateChanged(change session.StateChange) {
	s.post(stateMsg(change))
}

func (s *Sink) OnTick(t session.Tick) {
	s.post(tickMsg(t))
}

func (s *Sink) OnFailure(err error) {
	s.post(failureMsg{err: err})
}

// Confirm shows the prompt as a modal and waits for the answer.
func (s *Sink) Confirm(prompt permission.Prompt) (bool, error) {
	reply := make(chan bool, 1)
	if !s.post(promptMsg{prompt: prompt, reply: reply}) {
		return false, errUIClosed
	}

	select {
	case ok := <-reply:
		return ok, nil
	case <-s.done:
		return false, errUIClosed
	}
}

func (s *Sink) Notify(prompt permission.Prompt) {
	s.post(noticeMsg(prompt))
}
