// Package tui is the interactive terminal front end of the memo recorder.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/audiolibrelab/memocapture/internal/permission"
	"github.com/audiolibrelab/memocapture/internal/session"
	"github.com/audiolibrelab/memocapture/internal/waveform"
)

const defaultWaveWidth = 48

// Controls is the part of session.Controller the UI drives.
type Controls interface {
	RequestRecordToggle()
	RequestPlay()
	RequestStop()
}

type stateMsg session.StateChange

type tickMsg session.Tick

type failureMsg struct {
	err error
}

type promptMsg struct {
	prompt permission.Prompt
	reply  chan<- bool
}

type noticeMsg permission.Prompt

// requestDoneMsg is returned by the commands running controller requests.
type requestDoneMsg struct{}

// Model is the bubbletea model of the recorder screen.
type Model struct {
	controls Controls
	path     string

	state     session.State
	elapsed   time.Duration
	wave      *waveform.Waveform
	status    string
	statusErr bool
	prompt    *promptMsg
	width     int
}

func NewModel(controls Controls, path string) Model {
	return Model{
		controls: controls,
		path:     path,
		state:    session.StateIdle,
		wave:     waveform.New(defaultWaveWidth),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		if msg.Width > 8 {
			m.wave.Resize(msg.Width - 4)
		}
		return m, nil
	case stateMsg:
		return m.handleStateChange(session.StateChange(msg)), nil
	case tickMsg:
		return m.handleTick(session.Tick(msg)), nil
	case failureMsg:
		m.setError(failureText(msg.err))
		return m, nil
	case promptMsg:
		if m.prompt != nil {
			m.prompt.reply <- false
		}
		m.prompt = &msg
		return m, nil
	case noticeMsg:
		m.status = msg.Message
		m.statusErr = false
		return m, nil
	case requestDoneMsg:
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleStateChange(change session.StateChange) Model {
	m.state = change.To
	switch change.To {
	case session.StateRecording:
		m.wave.ClearData()
		m.elapsed = 0
		m.status = ""
	case session.StatePlaying:
		m.wave.ClearWave()
		m.elapsed = 0
		m.status = ""
	}
	return m
}

func (m Model) handleTick(t session.Tick) Model {
	if t.State != m.state {
		return m
	}
	m.elapsed = t.Elapsed
	switch t.Kind {
	case session.TickSample:
		m.wave.Add(t.Amplitude)
	case session.TickReplay:
		m.wave.Replay()
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.prompt != nil {
		return m.handlePromptKey(msg)
	}

	affordances := session.AffordancesFor(m.state)
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r":
		if affordances.RecordEnabled {
			return m, m.request(m.controls.RequestRecordToggle)
		}
	case "p":
		if affordances.PlayEnabled {
			return m, m.request(m.controls.RequestPlay)
		}
	case "s":
		if affordances.StopEnabled {
			return m, m.request(m.controls.RequestStop)
		}
	}
	return m, nil
}

func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.prompt.reply <- true
		m.prompt = nil
	case "n", "N", "esc":
		m.prompt.reply <- false
		m.prompt = nil
	case "ctrl+c":
		m.prompt.reply <- false
		m.prompt = nil
		return m, tea.Quit
	}
	return m, nil
}

// request runs a controller request off the event loop.
func (m Model) request(fn func()) tea.Cmd {
	return func() tea.Msg {
		fn()
		return requestDoneMsg{}
	}
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusErr = true
}

func failureText(err error) string {
	var openErr *session.BackendOpenError
	switch {
	case errors.Is(err, session.ErrPermissionDenied):
		return "Recording permission denied."
	case errors.As(err, &openErr):
		return fmt.Sprintf("Could not start %s: %v", openErr.Op, openErr.Err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}

func (m Model) View() string {
	var b strings.Builder

	label := m.state.String()
	b.WriteString(titleStyle.Render("memocapture"))
	b.WriteString("  ")
	b.WriteString(stateStyle(label).Render(strings.ToUpper(label)))
	b.WriteString("\n")
	b.WriteString(pathStyle.Render(m.path))
	b.WriteString("\n\n")

	b.WriteString(timerStyle.Render(session.FormatElapsed(m.elapsed)))
	b.WriteString("\n")
	b.WriteString(waveStyle.Render(m.wave.Render()))
	b.WriteString("\n\n")

	b.WriteString(m.renderControls())
	b.WriteString("\n")

	if m.status != "" {
		b.WriteString("\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(infoStyle.Render(m.status))
		}
		b.WriteString("\n")
	}

	if m.prompt != nil {
		b.WriteString("\n")
		b.WriteString(modalStyle.Render(m.prompt.prompt.Message + "\n" + helpStyle.Render("y allow  n deny")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("q quit"))
	return b.String()
}

func (m Model) renderControls() string {
	a := session.AffordancesFor(m.state)
	controls := []string{
		control("r", a.RecordLabel, a.RecordEnabled),
		control("p", "play", a.PlayEnabled),
		control("s", "stop", a.StopEnabled),
	}
	return strings.Join(controls, "   ")
}

func control(key, label string, enabled bool) string {
	text := fmt.Sprintf("[%s] %s", key, label)
	if enabled {
		return enabledStyle.Render(text)
	}
	return disabledStyle.Render(text)
}
