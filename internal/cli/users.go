package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List the device's user profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		if err := ensureDevice(cmd, eng); err != nil {
			return err
		}

		users, err := eng.Users(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(users)
		}

		rows := make([][]string, 0, len(users))
		for _, u := range users {
			name := u.Name
			if u.IsMain() {
				name += " (main)"
			}
			rows = append(rows, []string{fmt.Sprint(u.ID), name})
		}
		PrintTable([]string{"ID", "NAME"}, rows)
		return nil
	},
}
