package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/qumupam/qumupam/internal/adb"
	"github.com/qumupam/qumupam/internal/clock"
	"github.com/qumupam/qumupam/internal/config"
	"github.com/qumupam/qumupam/internal/engine"
)

// newEngine creates an engine with real implementations of all dependencies.
func newEngine() (*engine.Engine, *config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	cfg, err := config.Load(paths.Config)
	if err != nil {
		return nil, nil, err
	}

	// --adb beats the config file
	binary := cfg.ADBPath
	if adbPath != "" {
		binary = adbPath
	}

	transport := adb.New(binary)
	eng := engine.New(transport, &clock.RealClock{}, cfg)
	return eng, cfg, nil
}

// ensureDevice makes sure adb and a device are usable before a command runs,
// waiting for a device to appear when one is not attached yet.
func ensureDevice(cmd *cobra.Command, eng *engine.Engine) error {
	err := eng.EnsureDevice(cmd.Context(), false)
	if err == nil {
		return nil
	}

	switch {
	case jsonOutput:
		return err
	case errors.Is(err, engine.ErrADBUnavailable):
		PrintError("ADB is unavailable! Install platform-tools and make sure adb is on PATH (or set adb_path in config).")
		return err
	case errors.Is(err, engine.ErrNoDevice):
		PrintWarning("No device detected! Possible causes:")
		PrintList([]string{
			"Developer Mode is off (check in the app on the phone)",
			"Unsupported ADB drivers",
			"Faulty USB port, power only cable, etc.",
		}, 1)
		PrintInfo("Waiting for device...")
		return eng.EnsureDevice(cmd.Context(), true)
	default:
		return err
	}
}

// confirmRemoval asks the operator to type "remove" before hide operations
// run against the device owner profile, where uninstalling is for real.
func confirmRemoval(cmd *cobra.Command) bool {
	PrintWarning("You are targeting the main account. Hiding from the main account removes the app completely (including from additional accounts); it would have to be reinstalled from scratch.")
	fmt.Fprint(cmd.OutOrStdout(), "Type \"remove\" to confirm: ")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}
	return strings.TrimSpace(scanner.Text()) == "remove"
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
