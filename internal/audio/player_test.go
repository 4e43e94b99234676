package audio

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audiolibrelab/memocapture/internal/config"
)

func playerWith(available ...string) *Player {
	p := NewPlayer(config.PlaybackConfig{Players: config.SupportedPlayers}, nil)
	p.lookPath = func(name string) (string, error) {
		for _, a := range available {
			if a == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
	return p
}

func TestPlayer_FindAudioPlayer(t *testing.T) {
	player, err := playerWith("mpv", "aplay").findAudioPlayer("/x/memo.wav")
	require.NoError(t, err)
	assert.Equal(t, "mpv", player)

	player, err = playerWith("aplay").findAudioPlayer("/x/memo.wav")
	require.NoError(t, err)
	assert.Equal(t, "aplay", player)

	_, err = playerWith("aplay").findAudioPlayer("/x/memo.ogg")
	require.Error(t, err, "aplay cannot play non-wav files")

	_, err = playerWith().findAudioPlayer("/x/memo.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no audio player found")
}

func TestPlayer_FindAudioPlayerLooksUpExecutedBinary(t *testing.T) {
	_, err := playerWith("vlc").findAudioPlayer("/x/memo.ogg")
	require.Error(t, err, "vlc without cvlc cannot run headless")

	player, err := playerWith("cvlc").findAudioPlayer("/x/memo.ogg")
	require.NoError(t, err)
	assert.Equal(t, "vlc", player)
}

func TestPlayerArgs(t *testing.T) {
	for _, name := range config.SupportedPlayers {
		args, err := playerArgs(name, "/x/memo.wav")
		require.NoError(t, err, name)
		assert.Equal(t, "/x/memo.wav", args[len(args)-1])
	}

	args, err := playerArgs("ffplay", "/x/memo.wav")
	require.NoError(t, err)
	assert.Equal(t, []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "error", "/x/memo.wav"}, args)

	_, err = playerArgs("winamp", "/x/memo.wav")
	assert.Error(t, err)
}

func TestPlayer_OpenPlaybackRequiresFile(t *testing.T) {
	p := playerWith("ffplay")
	dir := t.TempDir()

	_, err := p.OpenPlayback(filepath.Join(dir, "missing.wav"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio file not found")

	empty := filepath.Join(dir, "empty.wav")
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	_, err = p.OpenPlayback(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audio file is empty")
}

func startHandle(t *testing.T, script string) *playbackHandle {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	cmd := exec.Command("sh", "-c", script)
	require.NoError(t, cmd.Start())
	h := &playbackHandle{player: "sh", cmd: cmd, exited: make(chan struct{})}
	go h.wait()
	return h
}

func TestPlaybackHandle_CompletionDeliveredOnce(t *testing.T) {
	h := startHandle(t, "exit 0")

	var calls atomic.Int32
	h.OnCompletion(func() { calls.Add(1) })

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	assert.NoError(t, h.Close())
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPlaybackHandle_CompletionBeforeRegistration(t *testing.T) {
	h := startHandle(t, "exit 0")
	require.Eventually(t, func() bool {
		h.mu.Lock()
		defer h.mu.Unlock()
		return h.finished
	}, time.Second, time.Millisecond)

	var calls atomic.Int32
	h.OnCompletion(func() { calls.Add(1) })
	assert.Equal(t, int32(1), calls.Load())
}

func TestPlaybackHandle_NoCompletionAfterClose(t *testing.T) {
	h := startHandle(t, "exec sleep 5")

	var calls atomic.Int32
	h.OnCompletion(func() { calls.Add(1) })

	start := time.Now()
	assert.NoError(t, h.Close())
	assert.Less(t, time.Since(start), stopTimeout)

	<-h.exited
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load())
}
