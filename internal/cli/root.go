package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	jsonOutput bool
	adbPath    string
)

// rootCmd is the root command for qumupam.
var rootCmd = &cobra.Command{
	Use:     "qumupam",
	Version: "dev",
	Short:   "Per-user package visibility manager for Meta Quest devices",
	Long: `qumupam toggles the per-user "installed" state of sideloaded apps on a
multi-user Quest device over ADB, without duplicating storage.

Apps stay on the device; each user profile just sees or doesn't see them.
Reconciliation is computed up front, so --dry-run shows exactly what would
change before anything runs.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&adbPath, "adb", "", "Path to the adb binary (default: adb from PATH)")

	// Define command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "visibility",
		Title: "Visibility:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "device",
		Title: "Device:",
	})

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the qumupam version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintln(os.Stdout, rootCmd.Version)
		},
	}
	rootCmd.AddCommand(versionCmd)

	// Visibility commands
	syncCmd.GroupID = "visibility"
	showCmd.GroupID = "visibility"
	hideCmd.GroupID = "visibility"
	statusCmd.GroupID = "visibility"
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(statusCmd)

	// Device commands
	usersCmd.GroupID = "device"
	packagesCmd.GroupID = "device"
	waitCmd.GroupID = "device"
	rootCmd.AddCommand(usersCmd)
	rootCmd.AddCommand(packagesCmd)
	rootCmd.AddCommand(waitCmd)
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
