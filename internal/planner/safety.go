package planner

import (
	"sort"

	"github.com/qumupam/qumupam/internal/inventory"
)

// UnsafeToHide returns the packages visible for exactly one of the snapshot's
// users. Hiding such a package removes its last visible copy: the app stays
// on disk but no profile can bring it back without a real reinstall, so the
// operator should be warned before the plan runs.
func UnsafeToHide(state *inventory.State) []string {
	owners := make(map[string]int)
	for _, user := range state.Users {
		for pkg := range state.Visible[user.ID] {
			owners[pkg]++
		}
	}

	var unsafe []string
	for pkg, count := range owners {
		if count == 1 {
			unsafe = append(unsafe, pkg)
		}
	}
	sort.Strings(unsafe)
	return unsafe
}
