package engine

// SyncRequest asks for exact reconciliation: after the run, each targeted
// user sees exactly the packages in Packages (modulo failures).
type SyncRequest struct {
	// Users is the list of targeted user profile IDs
	Users []int

	// Packages is the desired visible set for each targeted user
	Packages []string

	// All selects every third-party package on the device instead of
	// Packages
	All bool

	// DryRun computes the plan without executing it
	DryRun bool

	// KeepData preserves app data and cache when hiding
	KeepData bool

	// Jobs is the number of operations in flight at once (1 = sequential)
	Jobs int

	// AllowMain permits hide operations on the device owner profile
	AllowMain bool
}

// ToggleRequest asks for a non-exclusive change: only the named packages are
// touched, everything else keeps its visibility.
type ToggleRequest struct {
	// Users is the list of targeted user profile IDs
	Users []int

	// Packages is the list of packages to toggle
	Packages []string

	// Show selects the direction: true shows, false hides
	Show bool

	// DryRun computes the plan without executing it
	DryRun bool

	// KeepData preserves app data and cache when hiding
	KeepData bool

	// Jobs is the number of operations in flight at once (1 = sequential)
	Jobs int

	// AllowMain permits hide operations on the device owner profile
	AllowMain bool
}

// StatusRequest asks for the current visibility matrix.
type StatusRequest struct {
	// Users restricts the matrix to these profile IDs; empty means all
	Users []int

	// Labels resolves human-readable application labels (needs on-device
	// aapt2; slow on first run)
	Labels bool
}
