package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/qumupam/qumupam/internal/engine"
)

var (
	toggleUsers     []int
	toggleDryRun    bool
	toggleKeepData  bool
	toggleJobs      int
	toggleAllowMain bool
)

var showCmd = &cobra.Command{
	Use:   "show --user N package [package ...]",
	Short: "Make packages visible for a user",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args, true)
	},
}

var hideCmd = &cobra.Command{
	Use:   "hide --user N package [package ...]",
	Short: "Hide packages from a user",
	Long: `Hide the listed packages from the targeted users. The app and its data
stay on the device unless --keep-data=false; other users are unaffected.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggle(cmd, args, false)
	},
}

func runToggle(cmd *cobra.Command, args []string, show bool) error {
	eng, cfg, err := newEngine()
	if err != nil {
		return err
	}
	if err := ensureDevice(cmd, eng); err != nil {
		return err
	}

	req := &engine.ToggleRequest{
		Users:     toggleUsers,
		Packages:  args,
		Show:      show,
		DryRun:    toggleDryRun,
		KeepData:  toggleKeepData,
		Jobs:      toggleJobs,
		AllowMain: toggleAllowMain,
	}
	if !cmd.Flags().Changed("keep-data") {
		req.KeepData = *cfg.KeepData
	}
	if !cmd.Flags().Changed("jobs") {
		req.Jobs = cfg.Jobs
	}

	result, err := eng.Toggle(cmd.Context(), req)
	if errors.Is(err, engine.ErrMainUserProtected) && !jsonOutput {
		if !confirmRemoval(cmd) {
			PrintInfo("Exiting. If you are confused, read the warning above.")
			return err
		}
		req.AllowMain = true
		result, err = eng.Toggle(cmd.Context(), req)
	}
	return renderRun(result, err)
}

func toggleFlags(cmd *cobra.Command) {
	cmd.Flags().IntSliceVarP(&toggleUsers, "user", "u", nil, "Targeted user profile ID (repeatable)")
	cmd.Flags().BoolVar(&toggleDryRun, "dry-run", false, "Show the plan without executing it")
	cmd.Flags().BoolVar(&toggleKeepData, "keep-data", true, "Preserve app data and cache when hiding")
	cmd.Flags().IntVar(&toggleJobs, "jobs", 1, "Operations in flight at once")
	cmd.Flags().BoolVar(&toggleAllowMain, "allow-main", false, "Permit hiding from the main account without prompting")
	_ = cmd.MarkFlagRequired("user")
}

func init() {
	toggleFlags(showCmd)
	toggleFlags(hideCmd)
}
