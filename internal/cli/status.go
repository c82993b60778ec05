package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/qumupam/qumupam/internal/engine"
)

var (
	statusUsers  []int
	statusLabels bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the package visibility matrix",
	Long: `Show which third-party packages are visible for which user profile.
With --labels, application names are resolved through an on-device aapt2
binary; the first run can be slow.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		if err := ensureDevice(cmd, eng); err != nil {
			return err
		}

		result, err := eng.Status(cmd.Context(), &engine.StatusRequest{
			Users:  statusUsers,
			Labels: statusLabels,
		})
		if err != nil {
			return err
		}

		if jsonOutput {
			return outputJSON(result)
		}

		if len(result.Packages) == 0 {
			PrintEmptyState("No third-party packages on the device.")
			return nil
		}

		headers := []string{"PACKAGE"}
		for _, u := range result.Users {
			name := u.Name
			if u.IsMain() {
				name += " (main)"
			}
			headers = append(headers, fmt.Sprintf("%s [%d]", name, u.ID))
		}

		rows := make([][]string, 0, len(result.Packages))
		for _, pkg := range result.Packages {
			name := pkg
			if label, ok := result.Labels[pkg]; ok {
				name = fmt.Sprintf("%s (%s)", label, pkg)
			}
			row := []string{name}
			for _, u := range result.Users {
				mark := "-"
				if result.Visible[u.ID][pkg] {
					mark = "✓"
				}
				row = append(row, mark)
			}
			rows = append(rows, row)
		}

		PrintTable(headers, rows)
		return nil
	},
}

func init() {
	statusCmd.Flags().IntSliceVarP(&statusUsers, "user", "u", nil, "Restrict to these user profile IDs")
	statusCmd.Flags().BoolVar(&statusLabels, "labels", false, "Resolve application labels via on-device aapt2")
}
