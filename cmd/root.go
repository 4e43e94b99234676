package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/audiolibrelab/memocapture/internal/config"
	"github.com/audiolibrelab/memocapture/internal/service"
	"github.com/audiolibrelab/memocapture/internal/tui"

	"github.com/spf13/cobra"
)

var (
	cfg          *config.Config
	cfgFile      string
	pipeline     string
	recordLimit  time.Duration
	verboseLevel int
)

var rootCmd = &cobra.Command{
	Use:   "memocapture",
	Short: "Voice memo recorder",
	Long: `memocapture records a single voice memo from the microphone and plays it back.

Without arguments it opens the interactive recorder: r starts and stops a
recording, p plays the memo, s stops playback and q quits.

When a pipeline is provided, it acts as 'memocapture run'.`,
	Args: cobra.NoArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Configure slog based on verbose level
		setupLogging(os.Stderr, verboseLevel)

		// Use default config path if not specified
		if cfgFile == "" {
			cfgFile = config.DefaultPath()
		}

		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return validatePipeline()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if pipeline != "" {
			return runCmd.RunE(cmd, args)
		}
		return runInteractive()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/memocapture.yaml)")
	rootCmd.PersistentFlags().StringVarP(&pipeline, "pipeline", "p", "", "pipeline steps: r=record, p=play (e.g., 'rp', 'r', 'p')")
	rootCmd.PersistentFlags().DurationVarP(&recordLimit, "duration", "d", 0, "stop each recording after this long (0 waits for Ctrl+C)")
	rootCmd.PersistentFlags().IntVarP(&verboseLevel, "verbose", "v", 0, "verbose level: 0=info, 1=debug, 2=ffmpeg output, 3=max tracing")

	// Add subcommands
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(sourcesCmd)
	rootCmd.AddCommand(permissionCmd)
}

// runInteractive opens the recorder screen. Logs go to a file so they do not
// draw over the UI.
func runInteractive() error {
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()
	setupLogging(logFile, verboseLevel)

	sink := tui.NewSink()
	svc, err := service.New(cfg, service.Options{
		LogWriter: processLogWriter(logFile),
		Prompter:  sink,
		Observer:  sink,
	})
	if err != nil {
		return err
	}
	defer svc.Close()

	slog.Info("Interactive recorder started", "memo", cfg.OutputPath())
	return tui.Run(svc, sink, cfg.OutputPath())
}

// processLogWriter returns where ffmpeg and player output goes.
func processLogWriter(w io.Writer) io.Writer {
	if verboseLevel >= 2 {
		return w
	}
	return io.Discard
}

// setupLogging configures slog based on the verbose level
func setupLogging(w io.Writer, level int) {
	var slogLevel slog.Level
	switch level {
	case 0:
		slogLevel = slog.LevelInfo
	case 1:
		slogLevel = slog.LevelDebug
	case 2, 3:
		// Level 2 and 3 both use Debug level for slog
		// Level 3 will additionally set environment variables
		slogLevel = slog.LevelDebug
	default:
		slogLevel = slog.LevelInfo
	}

	// Configure text handler for clean terminal output
	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}
	handler := slog.NewTextHandler(w, opts)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Set environment variables for maximum tracing (level 3)
	if level >= 3 {
		os.Setenv("FFREPORT", "level=48")
		os.Setenv("PULSE_LOG", "4")
	}
}
