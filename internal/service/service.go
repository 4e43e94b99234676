package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/audiolibrelab/memocapture/internal/audio"
	"github.com/audiolibrelab/memocapture/internal/config"
	"github.com/audiolibrelab/memocapture/internal/permission"
	"github.com/audiolibrelab/memocapture/internal/session"
)

// Service represents the core memocapture service interface
type Service interface {
	// Session operations
	RequestRecordToggle()
	RequestPlay()
	RequestStop()
	Status() (session.State, *session.Info)
	SetObserver(o session.Observer)

	// Information operations
	MemoInfo() (*MemoInfo, error)
	GetConfig() *config.Config

	// Permission operations
	PermissionState() (permission.State, error)
	GrantPermission() error
	RevokePermission() error
	ResetPermission() error

	// Close ends any active session.
	Close()
}

// MemoInfo describes the memo file on disk
type MemoInfo struct {
	Path         string    `json:"path"`
	Exists       bool      `json:"exists"`
	Size         int64     `json:"size"`
	SizeHuman    string    `json:"size_human"`
	ModTime      time.Time `json:"mod_time"`
	ModTimeHuman string    `json:"mod_time_human"`
}

var _ Service = (*MemoService)(nil)

// MemoService is the main service implementation
type MemoService struct {
	cfg        *config.Config
	store      *permission.Store
	gate       *permission.Gate
	controller *session.Controller
}

// Options overrides the collaborators New builds from the configuration.
type Options struct {
	LogWriter io.Writer
	Prompter  permission.Prompter
	Observer  session.Observer
	Capture   session.CaptureBackend
	Playback  session.PlaybackBackend
}

// New creates a new memocapture service instance
func New(cfg *config.Config, opts Options) (*MemoService, error) {
	if opts.LogWriter == nil {
		opts.LogWriter = io.Discard
	}
	if opts.Prompter == nil {
		opts.Prompter = permission.NewTerminalPrompter()
	}
	if opts.Capture == nil {
		opts.Capture = audio.NewCaptureBackend(cfg, opts.LogWriter)
	}
	if opts.Playback == nil {
		opts.Playback = audio.NewPlaybackBackend(cfg, opts.LogWriter)
	}

	store := permission.NewStore(cfg.Permission.StateFile)
	gate := permission.NewGate(store, opts.Prompter)

	controller, err := session.NewController(session.Options{
		OutputPath:   cfg.OutputPath(),
		TickInterval: cfg.Timer.TickInterval,
		Permission:   gate,
		Capture:      opts.Capture,
		Playback:     opts.Playback,
		Observer:     opts.Observer,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session controller: %w", err)
	}
	gate.Bind(controller.OnPermissionResult)

	slog.Debug("Service created", "memo", cfg.OutputPath(), "permission_state", store.Path())

	return &MemoService{
		cfg:        cfg,
		store:      store,
		gate:       gate,
		controller: controller,
	}, nil
}

func (s *MemoService) RequestRecordToggle() {
	s.controller.RequestRecordToggle()
}

func (s *MemoService) RequestPlay() {
	s.controller.RequestPlay()
}

func (s *MemoService) RequestStop() {
	s.controller.RequestStop()
}

// Status returns the current state and session info
func (s *MemoService) Status() (session.State, *session.Info) {
	return s.controller.State(), s.controller.Session()
}

func (s *MemoService) SetObserver(o session.Observer) {
	s.controller.SetObserver(o)
}

// MemoInfo returns file information for the memo
func (s *MemoService) MemoInfo() (*MemoInfo, error) {
	path := s.cfg.OutputPath()
	info := &MemoInfo{Path: path}

	stat, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return info, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat memo %s: %w", path, err)
	}

	info.Exists = true
	info.Size = stat.Size()
	info.SizeHuman = formatBytes(stat.Size())
	info.ModTime = stat.ModTime()
	info.ModTimeHuman = stat.ModTime().Format("2006-01-02 15:04:05")
	return info, nil
}

// GetConfig returns the current configuration
func (s *MemoService) GetConfig() *config.Config {
	return s.cfg
}

func (s *MemoService) PermissionState() (permission.State, error) {
	return s.store.Load()
}

func (s *MemoService) GrantPermission() error {
	return s.store.Grant()
}

func (s *MemoService) RevokePermission() error {
	return s.store.Revoke()
}

func (s *MemoService) ResetPermission() error {
	return s.store.Reset()
}

func (s *MemoService) Close() {
	s.controller.Close()
}

// formatBytes formats bytes in human readable format
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
