// Package engine provides the core logic for qumupam operations.
//
// The engine orchestrates one run: read the inventory from the device, plan
// the reconciliation, execute the plan, and summarize the outcome. It is the
// API surface called by the CLI. All device access goes through the injected
// transport, so the whole engine is testable against a fake device.
package engine

import (
	"context"
	"fmt"

	"github.com/qumupam/qumupam/internal/adb"
	"github.com/qumupam/qumupam/internal/clock"
	"github.com/qumupam/qumupam/internal/config"
	"github.com/qumupam/qumupam/internal/executor"
	"github.com/qumupam/qumupam/internal/inventory"
	"github.com/qumupam/qumupam/internal/planner"
)

// Engine orchestrates qumupam operations.
type Engine struct {
	transport adb.Transport
	reader    *inventory.Reader
	executor  *executor.Executor
	clock     clock.Clock
	cfg       *config.Config
}

// New creates an Engine with the given dependencies.
func New(transport adb.Transport, clk clock.Clock, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		transport: transport,
		reader:    inventory.NewReader(transport),
		executor:  executor.New(transport),
		clock:     clk,
		cfg:       cfg,
	}
}

// Users lists the device's user profiles.
func (e *Engine) Users(ctx context.Context) ([]inventory.User, error) {
	return e.reader.Users(ctx)
}

// resolveUsers maps requested user IDs to device profiles. Every requested ID
// must exist on the device.
func (e *Engine) resolveUsers(ctx context.Context, ids []int) ([]inventory.User, []inventory.User, error) {
	all, err := e.reader.Users(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(all) == 0 {
		return nil, nil, ErrNoUsers
	}

	byID := make(map[int]inventory.User, len(all))
	for _, u := range all {
		byID[u.ID] = u
	}

	targets := make([]inventory.User, 0, len(ids))
	for _, id := range ids {
		u, ok := byID[id]
		if !ok {
			return nil, nil, fmt.Errorf("%w: user %d", ErrUserNotFound, id)
		}
		targets = append(targets, u)
	}
	return targets, all, nil
}

// guardMainUser rejects plans that hide packages from the device owner
// profile unless explicitly allowed. Hiding from the owner uninstalls the app
// for real, including from every other profile.
func guardMainUser(plan *planner.Plan, allUsers []inventory.User, allow bool) error {
	if allow {
		return nil
	}
	for _, op := range plan.Operations {
		if op.Action != planner.ActionHide {
			continue
		}
		if op.User == 0 || len(allUsers) == 1 {
			return fmt.Errorf("%w: hiding %s for user %d", ErrMainUserProtected, op.Package, op.User)
		}
	}
	return nil
}

// filterProtected drops hide operations for packages matching a protected
// pattern. Show operations always pass. Returns the surviving plan and the
// packages that were shielded.
func (e *Engine) filterProtected(plan *planner.Plan) (*planner.Plan, []string) {
	if len(e.cfg.Protected) == 0 {
		return plan, nil
	}

	filtered := &planner.Plan{Satisfied: plan.Satisfied}
	var shielded []string
	seen := make(map[string]bool)
	for _, op := range plan.Operations {
		if op.Action == planner.ActionHide && e.cfg.IsProtected(op.Package) {
			if !seen[op.Package] {
				seen[op.Package] = true
				shielded = append(shielded, op.Package)
			}
			continue
		}
		filtered.AddOperation(op)
	}
	return filtered, shielded
}
