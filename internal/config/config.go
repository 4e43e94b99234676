package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Audio      AudioConfig      `mapstructure:"audio" yaml:"audio"`
	Output     OutputConfig     `mapstructure:"output" yaml:"output"`
	Playback   PlaybackConfig   `mapstructure:"playback" yaml:"playback"`
	Timer      TimerConfig      `mapstructure:"timer" yaml:"timer"`
	Permission PermissionConfig `mapstructure:"permission" yaml:"permission"`
}

type AudioConfig struct {
	Backend      string        `mapstructure:"backend" yaml:"backend"`           // "ffmpeg", "auto"
	InputFormat  string        `mapstructure:"input_format" yaml:"input_format"` // ffmpeg -f value, e.g. "pulse", "alsa"
	Device       string        `mapstructure:"device" yaml:"device"`
	SampleRate   int           `mapstructure:"sample_rate" yaml:"sample_rate"`
	Channels     int           `mapstructure:"channels" yaml:"channels"`
	Codec        string        `mapstructure:"codec" yaml:"codec"` // empty lets ffmpeg pick from the file extension
	MeterRate    int           `mapstructure:"meter_rate" yaml:"meter_rate"`
	StartupCheck time.Duration `mapstructure:"startup_check" yaml:"startup_check"`
}

type OutputConfig struct {
	Directory string `mapstructure:"directory" yaml:"directory"`
	FileName  string `mapstructure:"file_name" yaml:"file_name"`
}

type PlaybackConfig struct {
	Players []string `mapstructure:"players" yaml:"players"`
}

type TimerConfig struct {
	TickInterval time.Duration `mapstructure:"tick_interval" yaml:"tick_interval"`
}

type PermissionConfig struct {
	StateFile string `mapstructure:"state_file" yaml:"state_file"`
}

// SupportedPlayers lists the external players the playback backend knows how to drive.
var SupportedPlayers = []string{"ffplay", "mpv", "vlc", "paplay", "aplay"}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return os.ExpandEnv("$HOME/.config/memocapture.yaml")
}

func defaultCacheDirectory() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "memocapture")
	}
	return filepath.Join(os.TempDir(), "memocapture")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("audio.backend", "auto")
	v.SetDefault("audio.input_format", "pulse")
	v.SetDefault("audio.device", "default")
	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("audio.channels", 1)
	v.SetDefault("audio.codec", "")
	v.SetDefault("audio.meter_rate", 8000)
	v.SetDefault("audio.startup_check", 150*time.Millisecond)
	v.SetDefault("output.directory", defaultCacheDirectory())
	v.SetDefault("output.file_name", "audiorecord.wav")
	v.SetDefault("playback.players", SupportedPlayers)
	v.SetDefault("timer.tick_interval", 100*time.Millisecond)
	v.SetDefault("permission.state_file", "")
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	v := viper.New()
	setDefaults(v)

	var cfg Config
	// Defaults are plain values and always decode.
	_ = v.Unmarshal(&cfg)
	cfg.resolve()
	return &cfg
}

// Load reads configFile on top of the defaults. A missing file is not an
// error; environment variables prefixed with MEMOCAPTURE_ override both.
func Load(configFile string) (*Config, error) {
	return load(viper.New(), configFile)
}

func load(v *viper.Viper, configFile string) (*Config, error) {
	setDefaults(v)

	v.SetEnvPrefix("MEMOCAPTURE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	cfg.resolve()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// resolve expands paths and fills values derived from other keys.
func (c *Config) resolve() {
	c.Output.Directory = expandPath(c.Output.Directory)
	c.Permission.StateFile = expandPath(c.Permission.StateFile)
	if c.Permission.StateFile == "" {
		c.Permission.StateFile = filepath.Join(c.Output.Directory, "permission.yaml")
	}
}

// OutputPath is the fixed memo file, overwritten by every recording.
func (c *Config) OutputPath() string {
	return filepath.Join(c.Output.Directory, c.Output.FileName)
}

// LogPath is where the terminal UI writes its log.
func (c *Config) LogPath() string {
	return filepath.Join(c.Output.Directory, "memocapture.log")
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Audio.Backend) {
	case "auto", "ffmpeg":
	default:
		return fmt.Errorf("audio.backend must be 'auto' or 'ffmpeg', got: %s", c.Audio.Backend)
	}

	if c.Audio.InputFormat == "" {
		return fmt.Errorf("audio.input_format is required")
	}
	if c.Audio.Device == "" {
		return fmt.Errorf("audio.device is required")
	}
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sample_rate must be > 0, got: %d", c.Audio.SampleRate)
	}
	if c.Audio.Channels != 1 && c.Audio.Channels != 2 {
		return fmt.Errorf("audio.channels must be 1 or 2, got: %d", c.Audio.Channels)
	}
	if c.Audio.MeterRate <= 0 {
		return fmt.Errorf("audio.meter_rate must be > 0, got: %d", c.Audio.MeterRate)
	}
	if c.Audio.StartupCheck < 0 {
		return fmt.Errorf("audio.startup_check must be >= 0, got: %s", c.Audio.StartupCheck)
	}

	if c.Output.Directory == "" {
		return fmt.Errorf("output.directory is required")
	}
	if c.Output.FileName == "" || strings.ContainsRune(c.Output.FileName, filepath.Separator) {
		return fmt.Errorf("output.file_name must be a plain file name, got: %q", c.Output.FileName)
	}

	if len(c.Playback.Players) == 0 {
		return fmt.Errorf("playback.players cannot be empty")
	}
	for i, p := range c.Playback.Players {
		if !isSupportedPlayer(p) {
			return fmt.Errorf("playback.players[%d]: unsupported player %q (supported: %s)", i, p, strings.Join(SupportedPlayers, ", "))
		}
	}

	if c.Timer.TickInterval <= 0 {
		return fmt.Errorf("timer.tick_interval must be > 0, got: %s", c.Timer.TickInterval)
	}

	return nil
}

func isSupportedPlayer(name string) bool {
	for _, p := range SupportedPlayers {
		if p == name {
			return true
		}
	}
	return false
}

func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, path[2:])
	}
	return path
}
