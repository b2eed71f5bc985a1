package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/unihan/internal/query"
	"github.com/roach88/unihan/internal/store"
	"github.com/roach88/unihan/internal/worker"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <sql>",
		Short: "Run an SQL query against the store",
		Long: `Run one SQL statement verbatim and print the result.

Every cell is printed as text: NULL, integers and reals in decimal, text
as-is, blobs as a byte list. A result of more than 500 rows is an error;
narrow the query with WHERE or LIMIT.

Multiple arguments are joined with spaces. Text holding several
statements is driver dependent: sqlite3 returns the rows of the first,
sqlite those of the last. Text with no statement prints OK.

Examples:
  unihan query "SELECT name, COUNT(*) FROM field GROUP BY name"
  unihan query --format json "SELECT * FROM field WHERE character = 19968"`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return WrapExitError(ExitCommandError, "invalid arguments", err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuery(rootOpts, strings.Join(args, " "), cmd)
		},
	}

	return cmd
}

func runQuery(opts *RootOptions, q string, cmd *cobra.Command) error {
	h := opts.newHandle()
	defer h.Close()

	return runAction(cmd, opts, "query", queryTask(h, q))
}

// queryTask executes q.
func queryTask(h *store.Handle, q string) worker.Task {
	return func(ctx context.Context) (any, error) {
		res, err := query.Execute(ctx, h, q)
		if err != nil {
			return nil, err
		}
		return (*queryResult)(res), nil
	}
}
