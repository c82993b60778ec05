// Package report aggregates executor outcomes into a summary for display.
// Pure aggregation, no I/O.
package report

import (
	"github.com/qumupam/qumupam/internal/executor"
	"github.com/qumupam/qumupam/internal/planner"
)

// Failure is one (package, user) operation that failed, with the reason the
// device gave. A report never collapses failures into a bare error count.
type Failure struct {
	Package string
	User    int
	Reason  string
}

// Report groups a run's results by outcome.
type Report struct {
	// Succeeded lists the operations the device confirmed
	Succeeded []planner.Operation

	// Failed lists each failed pair with its reason
	Failed []Failure

	// Skipped lists the pairs that were already in the desired state
	Skipped []planner.Pair
}

// Summarize groups executor results, folding in the pairs the planner found
// already satisfied.
func Summarize(results []executor.Result, satisfied []planner.Pair) *Report {
	r := &Report{
		Skipped: append([]planner.Pair(nil), satisfied...),
	}
	for _, res := range results {
		switch res.Outcome {
		case executor.OutcomeSucceeded:
			r.Succeeded = append(r.Succeeded, res.Op)
		case executor.OutcomeFailed:
			r.Failed = append(r.Failed, Failure{
				Package: res.Op.Package,
				User:    res.Op.User,
				Reason:  res.Reason,
			})
		}
	}
	return r
}

// HasFailures reports whether any operation failed.
func (r *Report) HasFailures() bool {
	return len(r.Failed) > 0
}

// Total returns the number of pairs the run examined.
func (r *Report) Total() int {
	return len(r.Succeeded) + len(r.Failed) + len(r.Skipped)
}
