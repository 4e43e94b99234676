package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memocapture.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "auto", cfg.Audio.Backend)
	assert.Equal(t, "pulse", cfg.Audio.InputFormat)
	assert.Equal(t, 44100, cfg.Audio.SampleRate)
	assert.Equal(t, 1, cfg.Audio.Channels)
	assert.Equal(t, 150*time.Millisecond, cfg.Audio.StartupCheck)
	assert.Equal(t, 100*time.Millisecond, cfg.Timer.TickInterval)
	assert.Equal(t, SupportedPlayers, cfg.Playback.Players)
	assert.Equal(t, "audiorecord.wav", filepath.Base(cfg.OutputPath()))
	assert.Equal(t, filepath.Join(cfg.Output.Directory, "permission.yaml"), cfg.Permission.StateFile)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
}

func TestLoad_FileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, `
audio:
  device: alsa_input.usb-mic
  sample_rate: 48000
  startup_check: 0s
output:
  directory: `+dir+`
  file_name: memo.ogg
playback:
  players: [mpv, ffplay]
timer:
  tick_interval: 50ms
permission:
  state_file: `+filepath.Join(dir, "perm.yaml")+`
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "alsa_input.usb-mic", cfg.Audio.Device)
	assert.Equal(t, 48000, cfg.Audio.SampleRate)
	assert.Equal(t, time.Duration(0), cfg.Audio.StartupCheck)
	assert.Equal(t, "pulse", cfg.Audio.InputFormat, "unset keys keep their default")
	assert.Equal(t, filepath.Join(dir, "memo.ogg"), cfg.OutputPath())
	assert.Equal(t, []string{"mpv", "ffplay"}, cfg.Playback.Players)
	assert.Equal(t, 50*time.Millisecond, cfg.Timer.TickInterval)
	assert.Equal(t, filepath.Join(dir, "perm.yaml"), cfg.Permission.StateFile)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("MEMOCAPTURE_AUDIO_DEVICE", "from-env")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Audio.Device)
}

func TestLoad_TildeExpansion(t *testing.T) {
	path := writeConfig(t, `
output:
  directory: ~/memos
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "memos"), cfg.Output.Directory)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "audio: [unclosed")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		message string
	}{
		{"backend", func(c *Config) { c.Audio.Backend = "jack" }, "audio.backend"},
		{"input format", func(c *Config) { c.Audio.InputFormat = "" }, "audio.input_format"},
		{"device", func(c *Config) { c.Audio.Device = "" }, "audio.device"},
		{"sample rate", func(c *Config) { c.Audio.SampleRate = 0 }, "audio.sample_rate"},
		{"channels", func(c *Config) { c.Audio.Channels = 6 }, "audio.channels"},
		{"meter rate", func(c *Config) { c.Audio.MeterRate = -1 }, "audio.meter_rate"},
		{"startup check", func(c *Config) { c.Audio.StartupCheck = -time.Second }, "audio.startup_check"},
		{"directory", func(c *Config) { c.Output.Directory = "" }, "output.directory"},
		{"file name", func(c *Config) { c.Output.FileName = "a/b.wav" }, "output.file_name"},
		{"no players", func(c *Config) { c.Playback.Players = nil }, "playback.players"},
		{"unknown player", func(c *Config) { c.Playback.Players = []string{"winamp"} }, "unsupported player"},
		{"tick interval", func(c *Config) { c.Timer.TickInterval = 0 }, "timer.tick_interval"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), tc.message), "unexpected error: %v", err)
		})
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := writeConfig(t, `
timer:
  tick_interval: -5ms
`)
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}
