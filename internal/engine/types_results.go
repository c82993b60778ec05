package engine

import (
	"time"

	"github.com/qumupam/qumupam/internal/inventory"
	"github.com/qumupam/qumupam/internal/planner"
	"github.com/qumupam/qumupam/internal/report"
)

// RunResult is the outcome of a sync or toggle run.
type RunResult struct {
	// Plan is the computed operation plan
	Plan *planner.Plan

	// Report groups per-operation outcomes; nil on dry runs
	Report *report.Report

	// Unsafe lists packages visible for only one user before the run;
	// hiding those strands the app with no way to bring it back
	Unsafe []string

	// Protected lists packages shielded from hiding by configuration
	Protected []string

	// Users is the set of targeted profiles
	Users []inventory.User

	// Duration is the wall-clock time the run took
	Duration time.Duration

	// DryRun records whether execution was skipped
	DryRun bool
}

// StatusResult is the current visibility matrix.
type StatusResult struct {
	// Users is the profiles included in the matrix
	Users []inventory.User

	// Packages is the sorted union of third-party packages
	Packages []string

	// Visible maps user ID to the set of packages visible for that user
	Visible map[int]map[string]bool

	// Labels maps package name to application label; only populated when
	// requested and resolvable
	Labels map[string]string
}
