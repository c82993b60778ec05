// Package executor applies planned visibility operations to the device.
//
// This is the only package that mutates device state. One operation failing
// never stops the rest of the batch; only a transport-level failure (device
// gone) aborts dispatch, and even then the results collected so far are
// returned. Nothing is retried: pm operations are not known to be safe to
// repeat blindly, so a failed pair is reported and left to the operator.
package executor

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/qumupam/qumupam/internal/adb"
	"github.com/qumupam/qumupam/internal/planner"
)

// Outcome is the terminal state of one executed operation.
type Outcome string

const (
	// OutcomeSucceeded means the device confirmed the toggle.
	OutcomeSucceeded Outcome = "succeeded"

	// OutcomeFailed means the toggle failed; Reason carries the device output.
	OutcomeFailed Outcome = "failed"
)

// Result is the outcome of one operation.
type Result struct {
	Op      planner.Operation
	Outcome Outcome

	// Reason explains a failure; empty on success
	Reason string
}

// Options controls how a batch is executed.
type Options struct {
	// Jobs is the number of operations in flight at once; values below 2
	// mean strictly sequential execution
	Jobs int

	// KeepData preserves app data and cache when hiding (pm uninstall -k)
	KeepData bool
}

// Success patterns for pm output. pm reports errors on a zero exit often
// enough that output must be checked even when the command "succeeded".
var (
	installSuccessRe   = regexp.MustCompile(`Package .* installed for user: .*`)
	uninstallSuccessRe = regexp.MustCompile(`^Success`)
)

// Executor runs planned operations through the transport.
type Executor struct {
	t adb.Transport
}

// New creates an Executor on the given transport.
func New(t adb.Transport) *Executor {
	return &Executor{t: t}
}

// Execute applies the operations and collects per-operation results.
//
// Cancelling the context stops dispatching new operations; operations already
// in flight run to completion so the device is never left mid-toggle. The
// returned error is non-nil only when the batch was cut short (cancellation
// or transport loss); the results gathered up to that point are still valid.
func (e *Executor) Execute(ctx context.Context, ops []planner.Operation, opts Options) ([]Result, error) {
	if opts.Jobs > 1 {
		return e.executeConcurrent(ctx, ops, opts)
	}
	return e.executeSequential(ctx, ops, opts)
}

func (e *Executor) executeSequential(ctx context.Context, ops []planner.Operation, opts Options) ([]Result, error) {
	var results []Result
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := e.apply(ctx, op, opts)
		results = append(results, res)
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// executeConcurrent runs operations with at most opts.Jobs in flight. The
// planner guarantees each (package, user) pair appears once per batch, so
// concurrent operations never target the same pair.
func (e *Executor) executeConcurrent(ctx context.Context, ops []planner.Operation, opts Options) ([]Result, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)

	slots := make([]*Result, len(ops))
	for i, op := range ops {
		i, op := i, op
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			res, err := e.apply(gctx, op, opts)
			slots[i] = &res
			return err
		})
	}
	err := g.Wait()

	results := make([]Result, 0, len(ops))
	for _, res := range slots {
		if res != nil {
			results = append(results, *res)
		}
	}
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return results, err
}

// apply executes one operation. The device call runs detached from the batch
// context: once dispatched, an operation is allowed to finish even if the run
// is being cancelled, so visibility state stays well defined. The returned
// error is non-nil only for transport-level failures.
func (e *Executor) apply(ctx context.Context, op planner.Operation, opts Options) (Result, error) {
	callCtx := context.WithoutCancel(ctx)
	user := strconv.Itoa(op.User)

	var out string
	var err error
	var successRe *regexp.Regexp

	switch op.Action {
	case planner.ActionShow:
		out, err = e.t.PM(callCtx, "install-existing", "--user", user, op.Package)
		successRe = installSuccessRe
	case planner.ActionHide:
		args := []string{"uninstall", "--user", user}
		if opts.KeepData {
			args = append(args, "-k")
		}
		args = append(args, op.Package)
		out, err = e.t.PM(callCtx, args...)
		successRe = uninstallSuccessRe
	default:
		return Result{Op: op, Outcome: OutcomeFailed, Reason: "unknown action: " + string(op.Action)}, nil
	}

	if err != nil {
		var terr *adb.TransportError
		if errors.As(err, &terr) {
			return Result{Op: op, Outcome: OutcomeFailed, Reason: terr.Error()}, err
		}
		var cerr *adb.CommandError
		reason := err.Error()
		if errors.As(err, &cerr) && cerr.Output != "" {
			reason = cerr.Output
		}
		return Result{Op: op, Outcome: OutcomeFailed, Reason: reason}, nil
	}

	if !successRe.MatchString(strings.TrimSpace(out)) {
		return Result{Op: op, Outcome: OutcomeFailed, Reason: strings.TrimSpace(out)}, nil
	}
	return Result{Op: op, Outcome: OutcomeSucceeded}, nil
}
