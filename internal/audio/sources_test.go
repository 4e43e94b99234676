package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pactlOutput = "49\talsa_output.pci-0000_00_1f.3.analog-stereo.monitor\tPipeWire\ts32le 2ch 48000Hz\tSUSPENDED\n" +
	"50\talsa_input.pci-0000_00_1f.3.analog-stereo\tPipeWire\ts32le 2ch 48000Hz\tRUNNING\n" +
	"\n"

func TestParseSources(t *testing.T) {
	sources := parseSources(pactlOutput)
	require.Len(t, sources, 2)

	assert.Equal(t, Source{
		Index:  "49",
		Name:   "alsa_output.pci-0000_00_1f.3.analog-stereo.monitor",
		Driver: "PipeWire",
		Format: "s32le 2ch 48000Hz",
		State:  "SUSPENDED",
	}, sources[0])
	assert.True(t, sources[0].IsMonitor())
	assert.False(t, sources[1].IsMonitor())
	assert.Equal(t, "RUNNING", sources[1].State)
}

func TestParseSources_SpaceSeparated(t *testing.T) {
	sources := parseSources("3 mic module-alsa-card.c s16le 1ch 44100Hz IDLE")
	require.Len(t, sources, 1)
	assert.Equal(t, "mic", sources[0].Name)
	assert.Equal(t, "s16le 1ch 44100Hz", sources[0].Format)
	assert.Equal(t, "IDLE", sources[0].State)
}

func TestParseSources_Empty(t *testing.T) {
	assert.Empty(t, parseSources(""))
	assert.Empty(t, parseSources("garbage"))
}

func TestValidateSourceInList(t *testing.T) {
	sources := parseSources(pactlOutput)

	assert.NoError(t, validateSourceInList("default", sources))
	assert.NoError(t, validateSourceInList("", sources))
	assert.NoError(t, validateSourceInList("alsa_input.pci-0000_00_1f.3.analog-stereo", sources))

	err := validateSourceInList("usb-mic", sources)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source not found")

	dup := append(sources, Source{Index: "77", Name: sources[1].Name})
	err = validateSourceInList(sources[1].Name, dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate sources detected")
}
