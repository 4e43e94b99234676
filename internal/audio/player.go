package audio

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/audiolibrelab/memocapture/internal/config"
	"github.com/audiolibrelab/memocapture/internal/session"
)

// Player plays the memo through the first available external player.
type Player struct {
	players   []string
	logWriter io.Writer
	lookPath  func(string) (string, error)
}

func NewPlayer(cfg config.PlaybackConfig, logWriter io.Writer) *Player {
	if logWriter == nil {
		logWriter = io.Discard
	}
	return &Player{players: cfg.Players, logWriter: logWriter, lookPath: exec.LookPath}
}

// OpenPlayback starts playing path.
func (p *Player) OpenPlayback(path string) (session.PlaybackHandle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("audio file not found: %s", path)
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("audio file is empty: %s", path)
	}

	player, err := p.findAudioPlayer(path)
	if err != nil {
		return nil, fmt.Errorf("no suitable audio player found: %w", err)
	}

	args, err := playerArgs(player, path)
	if err != nil {
		return nil, err
	}

	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stdout = p.logWriter
	cmd.Stderr = p.logWriter

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", player, err)
	}
	slog.Debug("Player started", "player", player, "pid", cmd.Process.Pid, "file", path)

	h := &playbackHandle{
		player: player,
		cmd:    cmd,
		exited: make(chan struct{}),
	}
	go h.wait()

	return h, nil
}

func (p *Player) findAudioPlayer(path string) (string, error) {
	isWav := strings.EqualFold(filepath.Ext(path), ".wav")

	for _, player := range p.players {
		// aplay only works with WAV files
		if player == "aplay" && !isWav {
			continue
		}
		args, err := playerArgs(player, path)
		if err != nil {
			continue
		}
		// vlc runs as cvlc, look up what will actually be executed
		if _, err := p.lookPath(args[0]); err == nil {
			return player, nil
		}
	}

	return "", fmt.Errorf("no audio player found (tried: %s)", strings.Join(p.players, ", "))
}

func playerArgs(player, audioFile string) ([]string, error) {
	switch player {
	case "ffplay":
		return []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "error", audioFile}, nil
	case "mpv":
		return []string{"mpv", "--no-video", "--really-quiet", audioFile}, nil
	case "vlc":
		return []string{"cvlc", "--play-and-exit", audioFile}, nil
	case "paplay":
		return []string{"paplay", audioFile}, nil
	case "aplay":
		return []string{"aplay", "-q", audioFile}, nil
	default:
		return nil, fmt.Errorf("unsupported player: %s", player)
	}
}

// playbackHandle reports the end of the player process as completion,
// unless the handle was closed first.
type playbackHandle struct {
	player string
	cmd    *exec.Cmd
	exited chan struct{}

	mu         sync.Mutex
	onComplete func()
	finished   bool
	delivered  bool
	closed     bool
}

func (h *playbackHandle) wait() {
	err := h.cmd.Wait()
	close(h.exited)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.finished = true
	if h.closed {
		return
	}
	if err != nil {
		slog.Warn("Player exited with error", "player", h.player, "error", err)
	} else {
		slog.Debug("Playback completed", "player", h.player)
	}
	h.deliverLocked()
}

// OnCompletion registers fn. fn is called with the handle's lock held and
// must not block; a completion that already happened is delivered at once.
func (h *playbackHandle) OnCompletion(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.onComplete = fn
	if h.finished && !h.closed {
		h.deliverLocked()
	}
}

func (h *playbackHandle) deliverLocked() {
	if h.delivered || h.onComplete == nil {
		return
	}
	h.delivered = true
	h.onComplete()
}

func (h *playbackHandle) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	finished := h.finished
	h.mu.Unlock()

	if finished {
		return nil
	}
	select {
	case <-h.exited:
		return nil
	default:
	}

	err := interrupt(h.cmd.Process)

	select {
	case <-h.exited:
	case <-time.After(stopTimeout):
		slog.Warn("Player did not exit within timeout, force killing", "player", h.player)
		err = multierr.Append(err, kill(h.cmd.Process))
		<-h.exited
	}

	slog.Debug("Player stopped", "player", h.player)
	return err
}
