package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute pipeline steps on the memo",
	Long: `Execute the specified pipeline steps on the memo. Use -p to specify which steps to run,
for example -p rp records a memo and plays it back right away.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pipeline == "" {
			return fmt.Errorf("no pipeline specified, use -p flag (e.g., -p rp)")
		}

		return runSteps(cmd.Context(), []rune(strings.ToLower(pipeline)), recordLimit)
	},
}
