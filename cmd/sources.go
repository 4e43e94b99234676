package cmd

import (
	"fmt"
	"runtime"

	"github.com/audiolibrelab/memocapture/internal/audio"

	"github.com/spf13/cobra"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List available audio sources",
	Long:  `List all PulseAudio/PipeWire sources that can be used as audio.device with the pulse input format.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return listPulseSources(audio.NewPulseSources(), cfg.Audio.Device)
	},
}

// listPulseSources lists available PulseAudio sources
func listPulseSources(pulse *audio.PulseSources, configured string) error {
	sources, err := pulse.ListSources()
	if err != nil {
		return fmt.Errorf("failed to get audio sources: %w", err)
	}

	fmt.Printf("🎙 Audio Sources (%s)\n", runtime.GOOS)
	fmt.Printf("═══════════════════════════════════════\n\n")

	fmt.Printf("📋 SOURCES (%d found):\n", len(sources))
	for i, source := range sources {
		marker := ""
		if source.Name == configured {
			marker = " [configured]"
		}
		kind := "input"
		if source.IsMonitor() {
			kind = "monitor"
		}
		fmt.Printf("  %d. %s (%s, %s, %s)%s\n", i+1, source.Name, kind, source.Format, source.State, marker)
	}

	fmt.Printf("\n💡 Usage:\n")
	fmt.Printf("  • Set audio.input_format: pulse\n")
	fmt.Printf("  • Set audio.device to a source name, or \"default\"\n")
	fmt.Printf("  • Example: alsa_input.usb-Blue_Microphones_Yeti-00.analog-stereo\n\n")

	if configured != "" && configured != "default" {
		if err := pulse.ValidateSource(configured); err != nil {
			fmt.Printf("⚠ configured device: %v\n", err)
		}
	}

	return nil
}
