package planner

import (
	"sort"

	"github.com/qumupam/qumupam/internal/inventory"
)

// Action is the direction of a visibility toggle.
type Action string

const (
	// ActionShow makes a package visible for a user (pm install-existing).
	ActionShow Action = "show"

	// ActionHide removes a package from a user's view (pm uninstall --user).
	ActionHide Action = "hide"
)

// Operation is a single requested transition for one (package, user) pair.
type Operation struct {
	// Package is the reverse-domain package name
	Package string

	// User is the user profile ID the toggle applies to
	User int

	// Action is the direction of the toggle
	Action Action
}

// Pair identifies a (package, user) combination that needs no operation.
type Pair struct {
	Package string
	User    int
}

// Plan is the computed sequence of operations for one run.
type Plan struct {
	// Operations is the ordered list of toggles to execute
	Operations []Operation

	// Satisfied lists the examined pairs already in the desired state
	Satisfied []Pair
}

// IsEmpty reports whether the plan contains no operations.
func (p *Plan) IsEmpty() bool {
	return len(p.Operations) == 0
}

// AddOperation appends an operation to the plan.
func (p *Plan) AddOperation(op Operation) {
	p.Operations = append(p.Operations, op)
}

// AddSatisfied records a pair that already matches the desired state.
func (p *Plan) AddSatisfied(pair Pair) {
	p.Satisfied = append(p.Satisfied, pair)
}

// Build computes the exact reconciliation plan: for every targeted user, the
// packages in desired become visible and every other known package becomes
// hidden. Desired packages that are already visible are recorded as
// satisfied; hidden packages outside the desired set need no operation and
// are not recorded.
//
// Iteration is users ascending, then packages in sorted order, so output is
// deterministic for a given input. Each (package, user) pair appears at most
// once; the executor relies on that for its concurrency guarantee.
func Build(state *inventory.State, desired map[string]bool, users []int) *Plan {
	userIDs := append([]int(nil), users...)
	sort.Ints(userIDs)

	universe := make(map[string]bool, len(state.Universe)+len(desired))
	for _, pkg := range state.Universe {
		universe[pkg] = true
	}
	for pkg := range desired {
		universe[pkg] = true
	}
	packages := make([]string, 0, len(universe))
	for pkg := range universe {
		packages = append(packages, pkg)
	}
	sort.Strings(packages)

	plan := &Plan{}
	for _, user := range userIDs {
		for _, pkg := range packages {
			visible := state.IsVisible(pkg, user)
			want := desired[pkg]
			switch {
			case want && !visible:
				plan.AddOperation(Operation{Package: pkg, User: user, Action: ActionShow})
			case !want && visible:
				plan.AddOperation(Operation{Package: pkg, User: user, Action: ActionHide})
			case want:
				plan.AddSatisfied(Pair{Package: pkg, User: user})
			}
		}
	}
	return plan
}

// BuildShow plans making the named packages visible for the targeted users,
// leaving everything else alone.
func BuildShow(state *inventory.State, packages []string, users []int) *Plan {
	return buildToggle(state, packages, users, ActionShow)
}

// BuildHide plans hiding the named packages for the targeted users, leaving
// everything else alone.
func BuildHide(state *inventory.State, packages []string, users []int) *Plan {
	return buildToggle(state, packages, users, ActionHide)
}

func buildToggle(state *inventory.State, packages []string, users []int, action Action) *Plan {
	userIDs := append([]int(nil), users...)
	sort.Ints(userIDs)

	pkgs := append([]string(nil), packages...)
	sort.Strings(pkgs)

	plan := &Plan{}
	for _, user := range userIDs {
		for _, pkg := range pkgs {
			visible := state.IsVisible(pkg, user)
			if (action == ActionShow) == visible {
				plan.AddSatisfied(Pair{Package: pkg, User: user})
				continue
			}
			plan.AddOperation(Operation{Package: pkg, User: user, Action: action})
		}
	}
	return plan
}
