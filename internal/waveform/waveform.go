// Package waveform keeps the amplitude history of a memo and the window of
// bars currently on screen.
package waveform

import "strings"

// MaxAmplitude is the largest value a 16-bit sample meter reports.
const MaxAmplitude = 32767

var levels = []rune(" ▁▂▃▄▅▆▇█")

// Waveform records amplitudes while recording and replays them while playing.
// It is not safe for concurrent use.
type Waveform struct {
	maxBars int
	history []int
	visible []int
	replay  int
}

// New creates a waveform showing at most maxBars bars.
func New(maxBars int) *Waveform {
	if maxBars < 1 {
		maxBars = 1
	}
	return &Waveform{maxBars: maxBars}
}

// Add records a live amplitude and shows it.
func (w *Waveform) Add(amplitude int) {
	amplitude = clamp(amplitude)
	w.history = append(w.history, amplitude)
	w.show(amplitude)
}

// Replay shows the next recorded amplitude. It reports false once the
// history is exhausted.
func (w *Waveform) Replay() bool {
	if w.replay >= len(w.history) {
		return false
	}
	w.show(w.history[w.replay])
	w.replay++
	return true
}

// ClearData drops the recorded history and the visible bars.
func (w *Waveform) ClearData() {
	w.history = nil
	w.visible = nil
	w.replay = 0
}

// ClearWave drops the visible bars and rewinds the replay, keeping the history.
func (w *Waveform) ClearWave() {
	w.visible = nil
	w.replay = 0
}

// Bars returns the visible amplitudes, oldest first.
func (w *Waveform) Bars() []int {
	return append([]int(nil), w.visible...)
}

// Len returns the number of recorded amplitudes.
func (w *Waveform) Len() int {
	return len(w.history)
}

// Resize changes the number of visible bars.
func (w *Waveform) Resize(maxBars int) {
	if maxBars < 1 {
		maxBars = 1
	}
	w.maxBars = maxBars
	w.trim()
}

// Render draws the visible bars as block characters, padded to the window width.
func (w *Waveform) Render() string {
	var b strings.Builder
	for _, a := range w.visible {
		b.WriteRune(levels[a*(len(levels)-1)/MaxAmplitude])
	}
	for i := len(w.visible); i < w.maxBars; i++ {
		b.WriteRune(levels[0])
	}
	return b.String()
}

func (w *Waveform) show(amplitude int) {
	w.visible = append(w.visible, amplitude)
	w.trim()
}

func (w *Waveform) trim() {
	if over := len(w.visible) - w.maxBars; over > 0 {
		w.visible = append(w.visible[:0], w.visible[over:]...)
	}
}

func clamp(a int) int {
	if a < 0 {
		return 0
	}
	if a > MaxAmplitude {
		return MaxAmplitude
	}
	return a
}
