package audio

import (
	"fmt"
	"os/exec"
	"strings"
)

// Source is a capture device reported by the sound server.
type Source struct {
	Index  string
	Name   string
	Driver string
	Format string
	State  string
}

// IsMonitor reports whether the source records another device's output.
func (s Source) IsMonitor() bool {
	return strings.HasSuffix(s.Name, ".monitor")
}

// PulseSources lists capture sources through pactl. It works against both
// PulseAudio and PipeWire's pulse server.
type PulseSources struct {
	command string
}

func NewPulseSources() *PulseSources {
	return &PulseSources{command: "pactl"}
}

// ListSources returns all capture sources.
func (p *PulseSources) ListSources() ([]Source, error) {
	cmd := exec.Command(p.command, "list", "short", "sources")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list capture sources: %w", err)
	}
	return parseSources(string(output)), nil
}

// ValidateSource checks that a device name is known to the sound server.
func (p *PulseSources) ValidateSource(name string) error {
	if name == "" || name == "default" {
		return nil
	}

	sources, err := p.ListSources()
	if err != nil {
		return err
	}
	return validateSourceInList(name, sources)
}

func validateSourceInList(name string, sources []Source) error {
	if name == "" || name == "default" {
		return nil
	}

	var matches []string
	for _, s := range sources {
		if s.Name == name {
			matches = append(matches, s.Index)
		}
	}

	if len(matches) == 0 {
		return fmt.Errorf("source not found: %s", name)
	}
	if len(matches) > 1 {
		return fmt.Errorf("duplicate sources detected for '%s': indexes %v", name, matches)
	}
	return nil
}

// parseSources parses the tab separated output of `pactl list short sources`.
func parseSources(output string) []Source {
	var sources []Source

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			fields = strings.Fields(line)
		}
		if len(fields) < 2 {
			continue
		}

		s := Source{Index: fields[0], Name: fields[1]}
		if len(fields) > 2 {
			s.Driver = fields[2]
		}
		switch {
		case len(fields) == 4:
			s.Format = fields[3]
		case len(fields) > 4:
			s.Format = strings.Join(fields[3:len(fields)-1], " ")
			s.State = fields[len(fields)-1]
		}
		sources = append(sources, s)
	}

	return sources
}
