package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/audiolibrelab/memocapture/internal/config"
	"github.com/audiolibrelab/memocapture/internal/session"
)

const stopTimeout = 5 * time.Second

// FFmpegRecorder records the configured input device into a file with
// ffmpeg. A second ffmpeg output streams low-rate mono PCM on stdout which
// feeds the amplitude meter.
type FFmpegRecorder struct {
	cfg       config.AudioConfig
	logWriter io.Writer
	command   string
}

// NewFFmpegRecorder creates a capture backend.
func NewFFmpegRecorder(cfg config.AudioConfig, logWriter io.Writer) *FFmpegRecorder {
	if logWriter == nil {
		logWriter = io.Discard
	}
	return &FFmpegRecorder{cfg: cfg, logWriter: logWriter, command: "ffmpeg"}
}

func (r *FFmpegRecorder) buildArgs(outputFile string) []string {
	args := []string{
		"-hide_banner",
		"-nostdin",
		"-loglevel", "error",
		"-f", r.cfg.InputFormat,
		"-i", r.cfg.Device,
		"-ac", strconv.Itoa(r.cfg.Channels),
		"-ar", strconv.Itoa(r.cfg.SampleRate),
	}
	if r.cfg.Codec != "" {
		args = append(args, "-c:a", r.cfg.Codec)
	}
	args = append(args,
		"-y", // Overwrite output
		outputFile,
		// Meter stream
		"-f", "s16le",
		"-ac", "1",
		"-ar", strconv.Itoa(r.cfg.MeterRate),
		"pipe:1",
	)
	return args
}

// OpenCapture starts recording into path. It fails when ffmpeg cannot be
// started or exits during the startup check window.
func (r *FFmpegRecorder) OpenCapture(path string) (session.CaptureHandle, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	// Remove existing output file
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to remove previous recording: %w", err)
	}

	args := r.buildArgs(path)
	slog.Debug("Starting FFmpeg capture", "command", r.command+" "+strings.Join(args, " "))

	h, err := r.start(exec.Command(r.command, args...))
	if err != nil {
		return nil, err
	}

	slog.Debug("FFmpeg capture running", "pid", h.cmd.Process.Pid, "output", path)
	return h, nil
}

func (r *FFmpegRecorder) start(cmd *exec.Cmd) (*captureHandle, error) {
	stderr := &syncBuffer{}
	cmd.Stderr = io.MultiWriter(stderr, r.logWriter)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start FFmpeg: %w", err)
	}

	h := &captureHandle{
		cmd:    cmd,
		stderr: stderr,
		exited: make(chan struct{}),
	}
	go h.watch(stdout)

	if r.cfg.StartupCheck > 0 {
		select {
		case <-h.exited:
			return nil, fmt.Errorf("FFmpeg exited during startup: %v: %s", h.waitErr, strings.TrimSpace(stderr.String()))
		case <-time.After(r.cfg.StartupCheck):
		}
	}

	return h, nil
}

type captureHandle struct {
	cmd    *exec.Cmd
	stderr *syncBuffer
	meter  peakMeter

	exited  chan struct{}
	waitErr error

	closeOnce sync.Once
	closeErr  error
}

// watch meters stdout until ffmpeg closes it, then reaps the process.
func (h *captureHandle) watch(stdout io.Reader) {
	if err := h.meter.run(stdout); err != nil {
		slog.Debug("Meter stream ended", "error", err)
	}
	h.waitErr = h.cmd.Wait()
	close(h.exited)
}

func (h *captureHandle) CurrentAmplitude() int {
	return h.meter.take()
}

func (h *captureHandle) Close() error {
	h.closeOnce.Do(func() {
		h.closeErr = h.stop()
	})
	return h.closeErr
}

// stop interrupts ffmpeg so it can finalize the file, and kills it when it
// does not exit in time.
func (h *captureHandle) stop() error {
	var err error

	select {
	case <-h.exited:
		// Already gone, report why.
		return interpretExit(h.waitErr, h.stderr)
	default:
	}

	slog.Debug("Sending SIGINT to FFmpeg process")
	err = multierr.Append(err, interrupt(h.cmd.Process))

	select {
	case <-h.exited:
	case <-time.After(stopTimeout):
		slog.Warn("FFmpeg did not exit within timeout, force killing")
		err = multierr.Append(err, kill(h.cmd.Process))
		<-h.exited
		return err
	}

	return multierr.Append(err, interpretExit(h.waitErr, h.stderr))
}

// interpretExit treats the exits ffmpeg produces on interrupt as success.
func interpretExit(err error, stderr *syncBuffer) error {
	if err == nil {
		return nil
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		// Exit code 255 often means the process was interrupted gracefully
		if exitErr.ExitCode() == 255 {
			return nil
		}
		if exitErr.ProcessState != nil {
			state := exitErr.ProcessState.String()
			if state == "signal: interrupt" || state == "signal: killed" {
				return nil
			}
		}
	}
	return fmt.Errorf("FFmpeg process failed: %w: %s", err, strings.TrimSpace(stderr.String()))
}

// interrupt asks a process to finish, killing it when it cannot be signalled.
func interrupt(p *os.Process) error {
	err := p.Signal(os.Interrupt)
	if err == nil || errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	slog.Debug("Falling back to SIGKILL", "error", err)
	return kill(p)
}

func kill(p *os.Process) error {
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// syncBuffer is a bytes.Buffer safe for one writer and concurrent readers.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
