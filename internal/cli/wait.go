package cli

import (
	"github.com/spf13/cobra"
)

var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Block until a device is connected",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		if err := eng.EnsureDevice(cmd.Context(), true); err != nil {
			return err
		}
		if !jsonOutput {
			PrintSuccess("Device connected.")
		}
		return nil
	},
}
