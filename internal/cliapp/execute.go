package cliapp

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"corpusprep/internal/jobs"
)

// Execute runs root with args and returns the process exit status. Errors
// are printed to stderr; invalid arguments are followed by the usage line
// of the command that failed.
func Execute(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) int {
	root.SetArgs(args)
	cmd, err := root.ExecuteContextC(ctx)
	if err == nil {
		return jobs.ExitOK
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "interrupted")
		return jobs.ExitFailure
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	if errors.Is(err, jobs.ErrInvalidArgument) && cmd != nil {
		fmt.Fprintf(stderr, "Usage: %s\n", cmd.UseLine())
	}
	return jobs.ExitCode(err)
}

// ExactArgs is cobra.ExactArgs with the failure tagged as an invalid argument.
func ExactArgs(job string, n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return jobs.Invalid(job, fmt.Sprintf("expected %d arguments, got %d", n, len(args)))
		}
		return nil
	}
}

// FlagError tags flag parsing failures as invalid arguments.
func FlagError(job string) func(*cobra.Command, error) error {
	return func(_ *cobra.Command, err error) error {
		return jobs.Wrap(jobs.ErrInvalidArgument, job, "flags", "", err)
	}
}
