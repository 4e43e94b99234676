package audio

import (
	"io"

	"github.com/audiolibrelab/memocapture/internal/config"
	"github.com/audiolibrelab/memocapture/internal/session"
)

// NewCaptureBackend creates the capture backend. ffmpeg is the only one;
// config.Validate rejects any other audio.backend.
func NewCaptureBackend(cfg *config.Config, logWriter io.Writer) session.CaptureBackend {
	return NewFFmpegRecorder(cfg.Audio, logWriter)
}

// NewPlaybackBackend creates the playback backend
func NewPlaybackBackend(cfg *config.Config, logWriter io.Writer) session.PlaybackBackend {
	return NewPlayer(cfg.Playback, logWriter)
}
