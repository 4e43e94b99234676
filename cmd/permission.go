package cmd

import (
	"fmt"

	"github.com/audiolibrelab/memocapture/internal/service"

	"github.com/spf13/cobra"
)

var permissionCmd = &cobra.Command{
	Use:   "permission",
	Short: "Manage the record permission",
	Long: `Show or change whether memocapture may record from the microphone.
After two refusals the recorder stops asking; grant the permission here to record again.`,
}

var permissionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the record permission",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := service.New(cfg, service.Options{})
		if err != nil {
			return err
		}
		state, err := svc.PermissionState()
		if err != nil {
			return err
		}
		fmt.Printf("record_audio: %s\n", state)
		fmt.Printf("denials: %d\n", state.Denials)
		fmt.Printf("state_file: %s\n", cfg.Permission.StateFile)
		return nil
	},
}

func permissionChange(use, short, done string, change func(service.Service) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := service.New(cfg, service.Options{})
			if err != nil {
				return err
			}
			if err := change(svc); err != nil {
				return err
			}
			fmt.Println(done)
			return nil
		},
	}
}

func init() {
	permissionCmd.AddCommand(
		permissionStatusCmd,
		permissionChange("grant", "Allow recording", "Record permission granted.", service.Service.GrantPermission),
		permissionChange("revoke", "Refuse recording", "Record permission revoked.", service.Service.RevokePermission),
		permissionChange("reset", "Forget the decision so the recorder asks again", "Record permission reset.", service.Service.ResetPermission),
	)
}
