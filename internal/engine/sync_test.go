package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/qumupam/qumupam/internal/adb"
	"github.com/qumupam/qumupam/internal/clock"
	"github.com/qumupam/qumupam/internal/config"
	"github.com/qumupam/qumupam/internal/planner"
)

// newFakeDevice returns a fake with an owner and one secondary user, where
// the secondary user sees com.b out of {com.a, com.b, com.c}.
func newFakeDevice() *adb.Fake {
	f := adb.NewFake()
	f.Stub("pm list users", "Users:\n\tUserInfo{0:Owner:c13} running\n\tUserInfo{10:Worker:410}\n")
	f.Stub("pm list packages -3", "package:com.a\npackage:com.b\npackage:com.c\n")
	f.Stub("pm list packages --user 0 -3", "package:com.a\npackage:com.b\npackage:com.c\n")
	f.Stub("pm list packages --user 10 -3", "package:com.b\n")
	return f
}

func newTestEngine(f *adb.Fake, cfg *config.Config) *Engine {
	clk := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return New(f, clk, cfg)
}

func TestSync(t *testing.T) {
	f := newFakeDevice()
	f.Stub("pm install-existing --user 10 com.a", "Package com.a installed for user: 10\n")
	f.Stub("pm uninstall --user 10 -k com.b", "Success\n")

	e := newTestEngine(f, nil)
	result, err := e.Sync(context.Background(), &SyncRequest{
		Users:    []int{10},
		Packages: []string{"com.a"},
		KeepData: true,
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	wantOps := []planner.Operation{
		{Package: "com.a", User: 10, Action: planner.ActionShow},
		{Package: "com.b", User: 10, Action: planner.ActionHide},
	}
	if len(result.Plan.Operations) != len(wantOps) {
		t.Fatalf("plan = %v, want %v", result.Plan.Operations, wantOps)
	}
	for i, op := range wantOps {
		if result.Plan.Operations[i] != op {
			t.Errorf("plan[%d] = %v, want %v", i, result.Plan.Operations[i], op)
		}
	}

	if result.Report == nil {
		t.Fatal("expected a report")
	}
	if len(result.Report.Succeeded) != 2 || result.Report.HasFailures() {
		t.Errorf("report: succeeded=%d failed=%d", len(result.Report.Succeeded), len(result.Report.Failed))
	}
}

func TestSync_AlreadyInDesiredState(t *testing.T) {
	f := newFakeDevice()

	e := newTestEngine(f, nil)
	result, err := e.Sync(context.Background(), &SyncRequest{
		Users:    []int{10},
		Packages: []string{"com.b"},
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if !result.Plan.IsEmpty() {
		t.Errorf("expected empty plan, got %v", result.Plan.Operations)
	}
	if len(result.Report.Skipped) != 1 {
		t.Errorf("skipped = %d, want 1", len(result.Report.Skipped))
	}

	// No pm install/uninstall must have been issued.
	for _, call := range f.Calls() {
		if call != "pm list users" &&
			call != "pm list packages -3" &&
			call != "pm list packages --user 0 -3" &&
			call != "pm list packages --user 10 -3" {
			t.Errorf("unexpected device call: %s", call)
		}
	}
}

func TestSync_DryRunExecutesNothing(t *testing.T) {
	f := newFakeDevice()

	e := newTestEngine(f, nil)
	result, err := e.Sync(context.Background(), &SyncRequest{
		Users:    []int{10},
		Packages: []string{"com.a", "com.b", "com.c"},
		DryRun:   true,
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if !result.DryRun {
		t.Error("result should be marked dry-run")
	}
	if result.Report != nil {
		t.Error("dry run must not produce a report")
	}
	if len(result.Plan.Operations) != 2 {
		t.Errorf("plan = %v, want show com.a and com.c", result.Plan.Operations)
	}
	for _, call := range f.Calls() {
		if call == "pm install-existing --user 10 com.a" || call == "pm install-existing --user 10 com.c" {
			t.Errorf("dry run executed an operation: %s", call)
		}
	}
}

func TestSync_AllSelectsWholeUniverse(t *testing.T) {
	f := newFakeDevice()
	f.Stub("pm install-existing --user 10 com.a", "Package com.a installed for user: 10\n")
	f.Stub("pm install-existing --user 10 com.c", "Package com.c installed for user: 10\n")

	e := newTestEngine(f, nil)
	result, err := e.Sync(context.Background(), &SyncRequest{
		Users: []int{10},
		All:   true,
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(result.Report.Succeeded) != 2 {
		t.Errorf("succeeded = %d, want 2 (com.a, com.c shown)", len(result.Report.Succeeded))
	}
	if len(result.Report.Skipped) != 1 {
		t.Errorf("skipped = %d, want 1 (com.b already visible)", len(result.Report.Skipped))
	}
}

func TestSync_UnknownUser(t *testing.T) {
	f := newFakeDevice()

	e := newTestEngine(f, nil)
	_, err := e.Sync(context.Background(), &SyncRequest{Users: []int{99}})
	if !errors.Is(err, ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestSync_MainUserGuard(t *testing.T) {
	f := newFakeDevice()

	e := newTestEngine(f, nil)
	_, err := e.Sync(context.Background(), &SyncRequest{
		Users:    []int{0},
		Packages: []string{"com.a"}, // hides com.b and com.c for user 0
	})
	if !errors.Is(err, ErrMainUserProtected) {
		t.Fatalf("expected ErrMainUserProtected, got %v", err)
	}

	// Showing for the main user is fine without AllowMain.
	f2 := newFakeDevice()
	e2 := newTestEngine(f2, nil)
	_, err = e2.Sync(context.Background(), &SyncRequest{
		Users:    []int{0},
		Packages: []string{"com.a", "com.b", "com.c"},
	})
	if err != nil {
		t.Errorf("show-only sync on main user should pass the guard, got %v", err)
	}
}

func TestSync_MainUserGuardOverride(t *testing.T) {
	f := newFakeDevice()
	f.Stub("pm uninstall --user 0 -k com.b", "Success\n")
	f.Stub("pm uninstall --user 0 -k com.c", "Success\n")

	e := newTestEngine(f, nil)
	result, err := e.Sync(context.Background(), &SyncRequest{
		Users:     []int{0},
		Packages:  []string{"com.a"},
		KeepData:  true,
		AllowMain: true,
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}
	if len(result.Report.Succeeded) != 2 {
		t.Errorf("succeeded = %d, want 2", len(result.Report.Succeeded))
	}
}

func TestSync_ProtectedPackagesAreShielded(t *testing.T) {
	f := newFakeDevice()
	f.Stub("pm install-existing --user 10 com.a", "Package com.a installed for user: 10\n")

	cfg := config.Default()
	cfg.Protected = []string{"com.b"}

	e := newTestEngine(f, cfg)
	result, err := e.Sync(context.Background(), &SyncRequest{
		Users:    []int{10},
		Packages: []string{"com.a"},
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(result.Protected) != 1 || result.Protected[0] != "com.b" {
		t.Errorf("Protected = %v, want [com.b]", result.Protected)
	}
	for _, op := range result.Plan.Operations {
		if op.Package == "com.b" {
			t.Errorf("protected package planned: %+v", op)
		}
	}
}

func TestSync_PartialFailureIsReported(t *testing.T) {
	f := newFakeDevice()
	f.StubErr("pm install-existing --user 10 com.a", &adb.CommandError{
		Op:     "shell pm install-existing --user 10 com.a",
		Output: "Error: Package com.a doesn't exist",
		Code:   1,
	})
	f.Stub("pm install-existing --user 10 com.c", "Package com.c installed for user: 10\n")

	e := newTestEngine(f, nil)
	result, err := e.Sync(context.Background(), &SyncRequest{
		Users:    []int{10},
		Packages: []string{"com.a", "com.b", "com.c"},
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	if len(result.Report.Failed) != 1 {
		t.Fatalf("failed = %d, want 1", len(result.Report.Failed))
	}
	failure := result.Report.Failed[0]
	if failure.Package != "com.a" || failure.User != 10 || failure.Reason == "" {
		t.Errorf("unexpected failure: %+v", failure)
	}
	if len(result.Report.Succeeded) != 1 {
		t.Errorf("succeeded = %d, want 1", len(result.Report.Succeeded))
	}
}

func TestSync_TransportLossReturnsPartialReport(t *testing.T) {
	f := newFakeDevice()
	f.Stub("pm install-existing --user 10 com.a", "Package com.a installed for user: 10\n")
	f.StubErr("pm install-existing --user 10 com.c", &adb.TransportError{
		Op:  "install-existing --user 10 com.c",
		Err: errors.New("device offline"),
	})

	e := newTestEngine(f, nil)
	result, err := e.Sync(context.Background(), &SyncRequest{
		Users:    []int{10},
		Packages: []string{"com.a", "com.b", "com.c"},
	})

	var terr *adb.TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected wrapped TransportError, got %v", err)
	}
	if result == nil || result.Report == nil {
		t.Fatal("partial report must be returned alongside the error")
	}
	if len(result.Report.Succeeded) != 1 {
		t.Errorf("succeeded = %d, want 1", len(result.Report.Succeeded))
	}
}

func TestSync_UnsafeWarning(t *testing.T) {
	f := adb.NewFake()
	f.Stub("pm list users", "Users:\n\tUserInfo{0:Owner:c13} running\n\tUserInfo{10:Worker:410}\n")
	f.Stub("pm list packages -3", "package:com.solo\npackage:com.shared\n")
	f.Stub("pm list packages --user 0 -3", "package:com.shared\n")
	f.Stub("pm list packages --user 10 -3", "package:com.solo\npackage:com.shared\n")

	e := newTestEngine(f, nil)
	result, err := e.Sync(context.Background(), &SyncRequest{
		Users:  []int{10},
		DryRun: true, // plan only; everything would be hidden for user 10
	})
	if err != nil {
		t.Fatalf("Sync() error = %v", err)
	}

	// com.solo is visible only for user 10; com.shared is also visible for
	// the owner, so hiding it is recoverable.
	if len(result.Unsafe) != 1 || result.Unsafe[0] != "com.solo" {
		t.Errorf("Unsafe = %v, want [com.solo]", result.Unsafe)
	}
}

func TestToggle_ShowOnlyNamedPackages(t *testing.T) {
	f := newFakeDevice()
	f.Stub("pm install-existing --user 10 com.a", "Package com.a installed for user: 10\n")

	e := newTestEngine(f, nil)
	result, err := e.Toggle(context.Background(), &ToggleRequest{
		Users:    []int{10},
		Packages: []string{"com.a"},
		Show:     true,
	})
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	if len(result.Report.Succeeded) != 1 {
		t.Fatalf("succeeded = %d, want 1", len(result.Report.Succeeded))
	}
	// com.b stays visible, com.c stays hidden: neither may be touched.
	for _, call := range f.Calls() {
		if call == "pm uninstall --user 10 com.b" || call == "pm install-existing --user 10 com.c" {
			t.Errorf("toggle touched an unnamed package: %s", call)
		}
	}
}

func TestToggle_HideRequiresAllowMainOnOwner(t *testing.T) {
	f := newFakeDevice()

	e := newTestEngine(f, nil)
	_, err := e.Toggle(context.Background(), &ToggleRequest{
		Users:    []int{0},
		Packages: []string{"com.a"},
		Show:     false,
	})
	if !errors.Is(err, ErrMainUserProtected) {
		t.Errorf("expected ErrMainUserProtected, got %v", err)
	}
}

func TestStatus(t *testing.T) {
	f := newFakeDevice()

	e := newTestEngine(f, nil)
	result, err := e.Status(context.Background(), &StatusRequest{})
	if err != nil {
		t.Fatalf("Status() error = %v", err)
	}

	if len(result.Users) != 2 {
		t.Errorf("users = %d, want 2", len(result.Users))
	}
	if len(result.Packages) != 3 {
		t.Errorf("packages = %v, want 3 entries", result.Packages)
	}
	if !result.Visible[10]["com.b"] || result.Visible[10]["com.a"] {
		t.Errorf("unexpected visibility for user 10: %v", result.Visible[10])
	}
}

func TestEnsureDevice(t *testing.T) {
	f := adb.NewFake()
	f.SetStatus(adb.StatusUnavailable)
	e := newTestEngine(f, nil)

	if err := e.EnsureDevice(context.Background(), false); !errors.Is(err, ErrADBUnavailable) {
		t.Errorf("expected ErrADBUnavailable, got %v", err)
	}

	f.SetStatus(adb.StatusNoDevice)
	if err := e.EnsureDevice(context.Background(), false); !errors.Is(err, ErrNoDevice) {
		t.Errorf("expected ErrNoDevice, got %v", err)
	}

	if err := e.EnsureDevice(context.Background(), true); err != nil {
		t.Errorf("EnsureDevice(wait) error = %v", err)
	}
	if !f.Waited() {
		t.Error("expected WaitForDevice to be called")
	}
}
