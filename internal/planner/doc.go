// Package planner computes the operations needed to reconcile the device's
// current per-user package visibility with a desired selection.
//
// Planning is pure: given the same snapshot and selection it always produces
// the same operations in the same order, which makes dry-run output
// reproducible and the planner trivially testable. Users not named in the
// selection are never touched.
//
// Key responsibilities:
//   - Build deterministic show/hide operation lists
//   - Record pairs already in the desired state so reports can count skips
//   - Flag packages that are unsafe to hide (visible for a single user)
package planner
