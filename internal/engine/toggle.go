package engine

import (
	"context"
	"fmt"

	"github.com/qumupam/qumupam/internal/executor"
	"github.com/qumupam/qumupam/internal/planner"
	"github.com/qumupam/qumupam/internal/report"
)

// Toggle shows or hides the named packages for the targeted users without
// touching anything else.
func (e *Engine) Toggle(ctx context.Context, req *ToggleRequest) (*RunResult, error) {
	start := e.clock.Now()

	targets, all, err := e.resolveUsers(ctx, req.Users)
	if err != nil {
		return nil, err
	}

	state, err := e.reader.Snapshot(ctx, all)
	if err != nil {
		return nil, fmt.Errorf("failed to read device state: %w", err)
	}

	userIDs := make([]int, len(targets))
	for i, u := range targets {
		userIDs[i] = u.ID
	}

	var plan *planner.Plan
	if req.Show {
		plan = planner.BuildShow(state, req.Packages, userIDs)
	} else {
		plan = planner.BuildHide(state, req.Packages, userIDs)
	}
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
		return result, fmt.Errorf("run aborted: %w", execErr)
	}
	return result, nil
}
