// Package adb wraps the Android Debug Bridge binary used to talk to the
// connected Quest device.
//
// All device access in the tool goes through the Transport interface. The real
// implementation shells out to adb; tests use Fake with scripted responses.
// The transport distinguishes two failure modes: the device became unreachable
// (TransportError, fatal for the run) and the device delivered the command but
// the command itself failed (CommandError, recorded per operation).
package adb

import (
	"context"
	"errors"
	"os/exec"
	"regexp"
	"strings"
)

// DeviceStatus describes whether adb and a device are usable.
type DeviceStatus int

const (
	// StatusReady means adb works and at least one device is attached.
	StatusReady DeviceStatus = iota

	// StatusUnavailable means the adb binary could not be run at all.
	StatusUnavailable

	// StatusNoDevice means adb works but no device is attached.
	StatusNoDevice
)

// Transport provides an abstraction for device-management commands.
type Transport interface {
	// Status probes adb and reports whether a device is reachable.
	Status(ctx context.Context) (DeviceStatus, error)

	// WaitForDevice blocks until a device is attached.
	WaitForDevice(ctx context.Context) error

	// PM runs "adb shell pm <args>" and returns its stdout.
	PM(ctx context.Context, args ...string) (string, error)

	// Shell runs "adb shell <args>" and returns its stdout.
	Shell(ctx context.Context, args ...string) (string, error)
}

// ADB implements Transport by invoking the adb binary.
type ADB struct {
	path string
}

// New creates an ADB transport. An empty path means "adb" from PATH.
func New(path string) *ADB {
	if path == "" {
		path = "adb"
	}
	return &ADB{path: path}
}

// Status runs "adb devices" and classifies the result.
func (a *ADB) Status(ctx context.Context) (DeviceStatus, error) {
	out, err := a.run(ctx, "devices")
	if err != nil {
		var terr *TransportError
		if errors.As(err, &terr) {
			return StatusUnavailable, nil
		}
		return StatusUnavailable, err
	}
	return classifyDevices(out), nil
}

// WaitForDevice blocks until adb reports an attached device.
func (a *ADB) WaitForDevice(ctx context.Context) error {
	_, err := a.run(ctx, "wait-for-device")
	return err
}

// PM runs a package-manager command on the device.
func (a *ADB) PM(ctx context.Context, args ...string) (string, error) {
	return a.Shell(ctx, append([]string{"pm"}, args...)...)
}

// Shell runs a command in the device shell.
func (a *ADB) Shell(ctx context.Context, args ...string) (string, error) {
	return a.run(ctx, append([]string{"shell"}, args...)...)
}

// run executes adb with the given arguments and classifies failures.
func (a *ADB) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, a.path, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err == nil {
		return string(out), nil
	}

	op := strings.Join(args, " ")

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		// adb missing or could not be started
		return "", &TransportError{Op: op, Err: err}
	}

	combined := strings.TrimSpace(string(out) + "\n" + stderr.String())
	if isConnectionLoss(combined) {
		return "", &TransportError{Op: op, Err: errors.New(combined)}
	}

	// Device delivered the command; the command itself failed.
	return string(out), &CommandError{
		Op:     op,
		Output: combined,
		Code:   exitErr.ExitCode(),
	}
}

// classifyDevices inspects "adb devices" output for an attached device.
func classifyDevices(out string) DeviceStatus {
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "List of devices") || strings.HasPrefix(line, "*") {
			continue
		}
		return StatusReady
	}
	return StatusNoDevice
}

// Messages adb itself prints when the connection to the device is gone.
// Matching any of these means the whole run must stop, not just one
// operation. The markers are kept narrow on purpose: pm output embeds
// arbitrary package names and remote error text, so loose substrings like
// "not found" would misclassify ordinary per-operation failures.
var connectionLossMarkers = []string{
	"no devices/emulators found",
	"device offline",
	"device unauthorized",
	"error: closed",
	"connection reset",
}

// deviceNotFoundRe matches adb's "error: device '<serial>' not found".
var deviceNotFoundRe = regexp.MustCompile(`error: device '[^']*' not found`)

func isConnectionLoss(output string) bool {
	lower := strings.ToLower(output)
	for _, marker := range connectionLossMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return deviceNotFoundRe.MatchString(lower)
}
