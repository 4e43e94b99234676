package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the recorder screen until the user quits. sink must be the
// observer of the controller behind controls.
func Run(controls Controls, sink *Sink, path string, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(NewModel(controls, path), opts...)

	sink.Attach(p)
	defer sink.Detach()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}
	return nil
}
