package adb

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Fake implements Transport with scripted responses for testing.
type Fake struct {
	mu      sync.Mutex
	status  DeviceStatus
	outputs map[string]string
	errs    map[string]error
	calls   []string
	waited  bool
}

// NewFake creates a Fake transport reporting a ready device.
func NewFake() *Fake {
	return &Fake{
		status:  StatusReady,
		outputs: make(map[string]string),
		errs:    make(map[string]error),
	}
}

// SetStatus sets the device status returned by Status.
func (f *Fake) SetStatus(s DeviceStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = s
}

// Stub registers the output for a shell command. The key is the full shell
// command line, e.g. "pm list users".
func (f *Fake) Stub(cmd, output string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs[cmd] = output
}

// StubErr registers an error for a shell command.
func (f *Fake) StubErr(cmd string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[cmd] = err
}

// Calls returns the shell command lines issued so far, in order.
func (f *Fake) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// Waited reports whether WaitForDevice was called.
func (f *Fake) Waited() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waited
}

// Status returns the configured device status.
func (f *Fake) Status(ctx context.Context) (DeviceStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, nil
}

// WaitForDevice records the wait and flips the status to ready.
func (f *Fake) WaitForDevice(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.waited = true
	f.status = StatusReady
	return nil
}

// PM runs a scripted package-manager command.
func (f *Fake) PM(ctx context.Context, args ...string) (string, error) {
	return f.Shell(ctx, append([]string{"pm"}, args...)...)
}

// Shell runs a scripted shell command. Unstubbed commands fail the same way
// an unknown remote command would.
func (f *Fake) Shell(ctx context.Context, args ...string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &TransportError{Op: strings.Join(args, " "), Err: err}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	cmd := strings.Join(args, " ")
	f.calls = append(f.calls, cmd)

	if err, ok := f.errs[cmd]; ok {
		return "", err
	}
	if out, ok := f.outputs[cmd]; ok {
		return out, nil
	}
	return "", &CommandError{
		Op:     "shell " + cmd,
		Output: fmt.Sprintf("sh: %s: inaccessible or not found", args[0]),
		Code:   127,
	}
}
