package waveform

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestWaveform_AddKeepsWindow(t *testing.T) {
	w := New(3)
	for _, a := range []int{1, 2, 3, 4, 5} {
		w.Add(a)
	}

	assert.Equal(t, []int{3, 4, 5}, w.Bars())
	assert.Equal(t, 5, w.Len())
}

func TestWaveform_AddClamps(t *testing.T) {
	w := New(2)
	w.Add(-5)
	w.Add(99999)
	assert.Equal(t, []int{0, MaxAmplitude}, w.Bars())
}

func TestWaveform_ReplayAfterClearWave(t *testing.T) {
	w := New(2)
	w.Add(10)
	w.Add(20)
	w.Add(30)

	w.ClearWave()
	assert.Empty(t, w.Bars())
	assert.Equal(t, 3, w.Len(), "history survives clearing the wave")

	assert.True(t, w.Replay())
	assert.Equal(t, []int{10}, w.Bars())
	assert.True(t, w.Replay())
	assert.True(t, w.Replay())
	assert.Equal(t, []int{20, 30}, w.Bars())

	assert.False(t, w.Replay(), "replay stops at the end of the history")
	assert.Equal(t, []int{20, 30}, w.Bars())
}

func TestWaveform_ClearData(t *testing.T) {
	w := New(4)
	w.Add(10)
	w.ClearData()

	assert.Empty(t, w.Bars())
	assert.Equal(t, 0, w.Len())
	assert.False(t, w.Replay())
}

func TestWaveform_Render(t *testing.T) {
	w := New(4)
	w.Add(0)
	w.Add(MaxAmplitude)

	out := w.Render()
	assert.Equal(t, 4, utf8.RuneCountInString(out))
	assert.Equal(t, " █  ", out)
}

func TestWaveform_Resize(t *testing.T) {
	w := New(4)
	for _, a := range []int{1, 2, 3, 4} {
		w.Add(a)
	}
	w.Resize(2)
	assert.Equal(t, []int{3, 4}, w.Bars())

	w.Resize(0)
	assert.Len(t, w.Bars(), 1)
}
