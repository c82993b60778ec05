package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/qumupam/qumupam/internal/engine"
)

var (
	syncUsers     []int
	syncAll       bool
	syncNone      bool
	syncDryRun    bool
	syncKeepData  bool
	syncJobs      int
	syncAllowMain bool
)

var syncCmd = &cobra.Command{
	Use:   "sync --user N [package ...]",
	Short: "Reconcile a user's visible packages to exactly the given set",
	Long: `Make each targeted user see exactly the listed packages: hidden ones are
shown, and visible packages not on the list are hidden. Use --all to show
every third-party package, or --none to hide everything.

Use --dry-run first to see the computed plan without touching the device.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateSelection(syncAll, syncNone, args); err != nil {
			return err
		}

		eng, cfg, err := newEngine()
		if err != nil {
			return err
		}
		if err := ensureDevice(cmd, eng); err != nil {
			return err
		}

		req := &engine.SyncRequest{
			Users:     syncUsers,
			Packages:  args,
			All:       syncAll,
			DryRun:    syncDryRun,
			KeepData:  syncKeepData,
			Jobs:      syncJobs,
			AllowMain: syncAllowMain,
		}
		if !cmd.Flags().Changed("keep-data") {
			req.KeepData = *cfg.KeepData
		}
		if !cmd.Flags().Changed("jobs") {
			req.Jobs = cfg.Jobs
		}

		result, err := eng.Sync(cmd.Context(), req)
		if errors.Is(err, engine.ErrMainUserProtected) && !jsonOutput {
			if !confirmRemoval(cmd) {
				PrintInfo("Exiting. If you are confused, read the warning above.")
				return err
			}
			req.AllowMain = true
			result, err = eng.Sync(cmd.Context(), req)
		}
		return renderRun(result, err)
	},
}

// validateSelection rejects ambiguous package selections before any device
// work happens. Hiding everything is destructive enough that it has to be
// asked for by name, not implied by an empty argument list.
func validateSelection(all, none bool, packages []string) error {
	switch {
	case all && none:
		return errors.New("--all and --none are mutually exclusive")
	case all && len(packages) > 0:
		return errors.New("--all cannot be combined with package arguments")
	case none && len(packages) > 0:
		return errors.New("--none cannot be combined with package arguments")
	case !all && !none && len(packages) == 0:
		return errors.New("nothing selected: pass package names, --all, or --none")
	}
	return nil
}

func init() {
	syncCmd.Flags().IntSliceVarP(&syncUsers, "user", "u", nil, "Targeted user profile ID (repeatable)")
	syncCmd.Flags().BoolVar(&syncAll, "all", false, "Show every third-party package instead of a list")
	syncCmd.Flags().BoolVar(&syncNone, "none", false, "Hide every third-party package")
	syncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "Show the plan without executing it")
	syncCmd.Flags().BoolVar(&syncKeepData, "keep-data", true, "Preserve app data and cache when hiding")
	syncCmd.Flags().IntVar(&syncJobs, "jobs", 1, "Operations in flight at once")
	syncCmd.Flags().BoolVar(&syncAllowMain, "allow-main", false, "Permit hiding from the main account without prompting")
	_ = syncCmd.MarkFlagRequired("user")
}
