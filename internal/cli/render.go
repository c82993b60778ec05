package cli

import (
	"fmt"

	"github.com/qumupam/qumupam/internal/engine"
	"github.com/qumupam/qumupam/internal/planner"
)

// renderRun displays the outcome of a sync or toggle run. A nil result with a
// non-nil error means the run never got off the ground; a partial result with
// an error means it was cut short and whatever completed is still shown.
func renderRun(result *engine.RunResult, err error) error {
	if result == nil {
		return err
	}
	if jsonOutput {
		if jerr := outputJSON(result); jerr != nil {
			return jerr
		}
		return err
	}

	if len(result.Protected) > 0 {
		PrintWarning(fmt.Sprintf("Left alone by config (protected): %s",
			PrintCount(len(result.Protected), "package", "packages")))
		PrintList(result.Protected, 1)
	}
	if len(result.Unsafe) > 0 {
		PrintWarning("These packages are visible for only one user; hiding them leaves no way to bring them back without reinstalling:")
		PrintList(result.Unsafe, 1)
	}

	if result.DryRun {
		PrintSection("Dry Run")
		if result.Plan.IsEmpty() {
			PrintInfo("Nothing to do: everything already matches.")
			return err
		}
		PrintInfo(fmt.Sprintf("Would apply %s:", PrintCount(len(result.Plan.Operations), "operation", "operations")))
		ops := make([]string, 0, len(result.Plan.Operations))
		for _, op := range result.Plan.Operations {
			ops = append(ops, describeOp(op, "show", "hide"))
		}
		PrintList(ops, 1)
		return err
	}

	for _, op := range result.Report.Succeeded {
		PrintSuccess(describeOp(op, "Shown", "Hidden"))
	}
	for _, failure := range result.Report.Failed {
		PrintError(fmt.Sprintf("%s (user %d): %s", failure.Package, failure.User, failure.Reason))
	}

	if result.Report.HasFailures() {
		PrintWarning(fmt.Sprintf("%s failed, see above for details.",
			PrintCount(len(result.Report.Failed), "operation", "operations")))
	}
	if skipped := len(result.Report.Skipped); skipped > 0 {
		PrintInfo(fmt.Sprintf("%s already matched.", PrintCount(skipped, "pair", "pairs")))
	}
	PrintInfo(fmt.Sprintf("Finished in %.3f seconds.", result.Duration.Seconds()))
	return err
}

func describeOp(op planner.Operation, show, hide string) string {
	verb := show
	if op.Action == planner.ActionHide {
		verb = hide
	}
	return fmt.Sprintf("%s %s (user %d)", verb, op.Package, op.User)
}
