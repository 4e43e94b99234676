package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/audiolibrelab/memocapture/internal/service"

	"github.com/spf13/cobra"
)

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a voice memo",
	Long: `Record a voice memo from the configured input device.
The memo replaces the previous one at the configured output path. Recording
stops on Ctrl+C or after --duration.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		slog.Info("Record command started", "memo", cfg.OutputPath(), "duration", recordLimit)

		svc, con, err := newHeadlessService(os.Stdout, service.Options{})
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := recordStep(cmd.Context(), svc, con, recordLimit); err != nil {
			return err
		}

		info, err := svc.MemoInfo()
		if err != nil {
			return fmt.Errorf("failed to inspect memo: %w", err)
		}
		fmt.Printf("Saved %s (%s)\n", info.Path, info.SizeHuman)

		// Execute pipeline if specified
		return executePipeline(cmd.Context(), 'r')
	},
}
