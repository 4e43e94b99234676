package cmd

import (
	"os"

	"github.com/audiolibrelab/memocapture/internal/service"

	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the recorded memo",
	Long: `Play the memo with the first available player from playback.players
(ffplay, mpv, vlc, paplay or aplay). Returns when playback ends or on Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, con, err := newHeadlessService(os.Stdout, service.Options{})
		if err != nil {
			return err
		}
		defer svc.Close()

		if err := playStep(cmd.Context(), svc, con); err != nil {
			return err
		}

		return executePipeline(cmd.Context(), 'p')
	},
}
