package permission

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
)

// PromptKind identifies the dialog shown to the user.
type PromptKind uint8

const (
	PromptRequest PromptKind = iota
	PromptRationale
	PromptSettings
)

// Prompt is one dialog.
type Prompt struct {
	Kind    PromptKind
	Message string
}

// Prompter shows permission dialogs. Confirm blocks until the user answered.
type Prompter interface {
	Confirm(prompt Prompt) (bool, error)
	Notify(prompt Prompt)
}

func requestPrompt() Prompt {
	return Prompt{Kind: PromptRequest, Message: "Allow memocapture to record audio from your microphone?"}
}

func rationalePrompt() Prompt {
	return Prompt{Kind: PromptRationale, Message: "Recording permission is required to use memocapture. Ask for it again?"}
}

func settingsPrompt(statePath string) Prompt {
	return Prompt{
		Kind: PromptSettings,
		Message: fmt.Sprintf("Recording permission is blocked. Run 'memocapture permission grant' to allow it (state file: %s).",
			statePath),
	}
}

// TerminalPrompter asks on the controlling terminal.
type TerminalPrompter struct {
	Stdin  io.ReadCloser
	Stdout io.Writer
}

func NewTerminalPrompter() *TerminalPrompter {
	return &TerminalPrompter{Stdin: os.Stdin, Stdout: os.Stderr}
}

func (p *TerminalPrompter) Confirm(prompt Prompt) (bool, error) {
	l, err := readline.NewEx(&readline.Config{
		Stdin:  p.Stdin,
		Stdout: p.Stdout,
	})
	if err != nil {
		return false, fmt.Errorf("could not read from terminal for prompt %q: %w", prompt.Message, err)
	}
	defer func() {
		_ = l.Close()
	}()

	l.SetPrompt(prompt.Message + " [y/N]: ")
	l.ResetHistory()

	line, err := l.Readline()
	if err != nil {
		return false, fmt.Errorf("could not read from terminal for prompt %q: %w", prompt.Message, err)
	}
	return parseAnswer(line), nil
}

func (p *TerminalPrompter) Notify(prompt Prompt) {
	fmt.Fprintln(p.Stdout, prompt.Message)
}

func parseAnswer(line string) bool {
	switch strings.TrimSpace(strings.ToLower(line)) {
	case "y", "yes", "1", "true", "allow":
		return true
	default:
		return false
	}
}
