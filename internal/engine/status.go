package engine

import (
	"context"
	"fmt"

	"github.com/qumupam/qumupam/internal/adb"
	"github.com/qumupam/qumupam/internal/inventory"
)

// Status reads the current visibility matrix without changing anything.
func (e *Engine) Status(ctx context.Context, req *StatusRequest) (*StatusResult, error) {
	var targets []inventory.User
	var err error
	if len(req.Users) == 0 {
		targets, err = e.reader.Users(ctx)
		if err != nil {
			return nil, err
		}
	} else {
		targets, _, err = e.resolveUsers(ctx, req.Users)
		if err != nil {
			return nil, err
		}
	}

	state, err := e.reader.Snapshot(ctx, targets)
	if err != nil {
		return nil, fmt.Errorf("failed to read device state: %w", err)
	}

	result := &StatusResult{
		Users:    state.Users,
		Packages: state.Universe,
		Visible:  state.Visible,
	}

	if req.Labels {
		resolver := inventory.NewLabelResolver(e.transport)
		result.Labels = make(map[string]string, len(state.Universe))
		for _, pkg := range state.Universe {
			if label := resolver.Label(ctx, pkg); label != "" {
				result.Labels[pkg] = label
			}
		}
	}
	return result, nil
}

// EnsureDevice checks that adb and a device are usable, waiting for a device
// to appear when asked. Returns ErrADBUnavailable or ErrNoDevice otherwise.
func (e *Engine) EnsureDevice(ctx context.Context, wait bool) error {
	status, err := e.transport.Status(ctx)
	if err != nil {
		return fmt.Errorf("probing adb: %w", err)
	}

	switch status {
	case adb.StatusUnavailable:
		return ErrADBUnavailable
	case adb.StatusNoDevice:
		if !wait {
			return ErrNoDevice
		}
		if err := e.transport.WaitForDevice(ctx); err != nil {
			return fmt.Errorf("waiting for device: %w", err)
		}
	}
	return nil
}
