package engine

import (
	"context"
	"fmt"

	"github.com/qumupam/qumupam/internal/executor"
	"github.com/qumupam/qumupam/internal/inventory"
	"github.com/qumupam/qumupam/internal/planner"
	"github.com/qumupam/qumupam/internal/report"
)

// Algorithm steps:
//  1. Resolve targeted users against the device
//  2. Read the full visibility snapshot (before any execution)
//  3. Build the exact reconciliation plan
//  4. Shield protected packages, check the main-user guard
//  5. Execute (unless DryRun), allowing partial failure
//  6. Summarize and return
func (e *Engine) Sync(ctx context.Context, req *SyncRequest) (*RunResult, error) {
	start := e.clock.Now()

	targets, all, err := e.resolveUsers(ctx, req.Users)
	if err != nil {
		return nil, err
	}

	// The snapshot covers every user, not just the targets: single-owner
	// detection has to see the whole device.
	state, err := e.reader.Snapshot(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to read device state: %w", err)
	}

	desired := make(map[string]bool)
	if req.All {
		for _, pkg := range state.Universe {
			desired[pkg] = true
		}
	} else {
		for _, pkg := range req.Packages {
			desired[pkg] = true
		}
	}

	userIDs := make([]int, len(targets))
	for i, u := range targets {
		userIDs[i] = u.ID
	}

	plan := planner.Build(state, desired, userIDs)
	plan, shielded := e.filterProtected(plan)

	if err := guardMainUser(plan, all, req.AllowMain); err != nil {
		return nil, err
	}

	result := &RunResult{
		Plan:      plan,
		Unsafe:    unsafePlanned(plan, state),
		Protected: shielded,
		Users:     targets,
		DryRun:    req.DryRun,
	}

	if req.DryRun {
		result.Duration = e.clock.Now().Sub(start)
		return result, nil
	}

	results, execErr := e.executor.Execute(ctx, plan.Operations, executor.Options{
		Jobs:     req.Jobs,
		KeepData: req.KeepData,
	})
	result.Report = report.Summarize(results, plan.Satisfied)
	result.Duration = e.clock.Now().Sub(start)

	if execErr != nil {
		// Partial results still matter: the caller gets both the report
		// and the run-level failure.
		return result, fmt.Errorf("run aborted: %w", execErr)
	}
	return result, nil
}

// unsafePlanned returns the planned hide targets that are visible for only
// one user in the snapshot, in sorted order.
func unsafePlanned(plan *planner.Plan, state *inventory.State) []string {
	hides := make(map[string]bool)
	for _, op := range plan.Operations {
		if op.Action == planner.ActionHide {
			hides[op.Package] = true
		}
	}
	if len(hides) == 0 {
		return nil
	}

	var unsafe []string
	for _, pkg := range planner.UnsafeToHide(state) {
		if hides[pkg] {
			unsafe = append(unsafe, pkg)
		}
	}
	return unsafe
}
