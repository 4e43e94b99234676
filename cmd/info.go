package cmd

import (
	"fmt"
	"strings"

	"github.com/audiolibrelab/memocapture/internal/service"

	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the memo file and resolved configuration",
	Long:  `Display the memo file path, its size and age, the permission state and the resolved configuration.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := service.New(cfg, service.Options{})
		if err != nil {
			return err
		}

		memo, err := svc.MemoInfo()
		if err != nil {
			return err
		}

		// Display memo file
		fmt.Printf("=== MEMO ===\n")
		fmt.Printf("path: %s\n", memo.Path)
		if memo.Exists {
			fmt.Printf("size: %s\n", memo.SizeHuman)
			fmt.Printf("modified: %s\n", memo.ModTimeHuman)
		} else {
			fmt.Printf("size: (not recorded yet)\n")
		}

		state, err := svc.PermissionState()
		if err != nil {
			return err
		}
		fmt.Printf("permission: %s\n", state)

		// Display resolved configuration
		fmt.Printf("\n=== RESOLVED CONFIGURATION ===\n")

		fmt.Printf("\n[Audio]\n")
		fmt.Printf("backend: %s\n", cfg.Audio.Backend)
		fmt.Printf("input: %s %s\n", cfg.Audio.InputFormat, cfg.Audio.Device)
		fmt.Printf("sample_rate: %d\n", cfg.Audio.SampleRate)
		fmt.Printf("channels: %d\n", cfg.Audio.Channels)
		fmt.Printf("codec: %s\n", valueOrAuto(cfg.Audio.Codec))
		fmt.Printf("meter_rate: %d\n", cfg.Audio.MeterRate)

		fmt.Printf("\n[Playback]\n")
		fmt.Printf("players: %s\n", strings.Join(cfg.Playback.Players, ", "))

		fmt.Printf("\n[Timer]\n")
		fmt.Printf("tick_interval: %s\n", cfg.Timer.TickInterval)

		fmt.Printf("\n[Files]\n")
		fmt.Printf("config: %s\n", cfgFile)
		fmt.Printf("permission_state: %s\n", cfg.Permission.StateFile)
		fmt.Printf("log: %s\n", cfg.LogPath())

		return nil
	},
}

func valueOrAuto(v string) string {
	if v == "" {
		return "(auto)"
	}
	return v
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
