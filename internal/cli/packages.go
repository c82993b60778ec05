package cli

import (
	"github.com/spf13/cobra"

	"github.com/qumupam/qumupam/internal/engine"
)

var (
	packagesUser   int
	packagesLabels bool
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List third-party packages",
	Long: `List the third-party packages known to the device, or, with --user,
only the ones visible for that profile.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, _, err := newEngine()
		if err != nil {
			return err
		}
		if err := ensureDevice(cmd, eng); err != nil {
			return err
		}

		req := &engine.StatusRequest{Labels: packagesLabels}
		if cmd.Flags().Changed("user") {
			req.Users = []int{packagesUser}
		}

		result, err := eng.Status(cmd.Context(), req)
		if err != nil {
			return err
		}

		packages := result.Packages
		if cmd.Flags().Changed("user") {
			packages = packages[:0]
			for _, pkg := range result.Packages {
				if result.Visible[packagesUser][pkg] {
					packages = append(packages, pkg)
				}
			}
		}

		if jsonOutput {
			return outputJSON(packages)
		}

		if len(packages) == 0 {
			PrintEmptyState("No packages found.")
			return nil
		}
		items := make([]string, 0, len(packages))
		for _, pkg := range packages {
			if label, ok := result.Labels[pkg]; ok {
				items = append(items, label+" ("+pkg+")")
			} else {
				items = append(items, pkg)
			}
		}
		PrintList(items, 0)
		return nil
	},
}

func init() {
	packagesCmd.Flags().IntVarP(&packagesUser, "user", "u", 0, "Only packages visible for this user profile ID")
	packagesCmd.Flags().BoolVar(&packagesLabels, "labels", false, "Resolve application labels via on-device aapt2")
}
