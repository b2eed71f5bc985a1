package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/unihan/internal/worker"
)

// runAction runs one user action on the worker, waits for its single
// outcome and prints it.
func runAction(cmd *cobra.Command, opts *RootOptions, op string, task worker.Task) error {
	out := worker.Do(cmd.Context(), op, task, opts.workerOptions()...)
	return report(opts.formatter(cmd), out)
}

// report prints an outcome. A failed outcome is also returned as an
// ExitError marked as reported.
func report(f *OutputFormatter, out worker.Outcome) error {
	if out.Err != nil {
		if err := f.Error(out.ID, errorCode(out.Err), out.Err.Error(), nil); err != nil {
			return err
		}
		exitErr := WrapExitError(exitCodeFor(out.Err), out.Op+" failed", out.Err)
		exitErr.Reported = true
		return exitErr
	}
	return f.Success(out.ID, out.Value)
}

// reportArgument prints an invalid-argument error and returns it as a
// reported command error.
func reportArgument(f *OutputFormatter, err error) error {
	if ferr := f.Error("", ErrCodeArgument, err.Error(), nil); ferr != nil {
		return ferr
	}
	exitErr := WrapExitError(ExitCommandError, "invalid argument", err)
	exitErr.Reported = true
	return exitErr
}
