package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/roach88/unihan/internal/failure"
	"github.com/roach88/unihan/internal/store"
	"github.com/roach88/unihan/internal/worker"
)

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarize the imported data",
		Long: `Print the number of rows, characters and field names in the store,
followed by the number of rows per field name.

Examples:
  unihan stats
  unihan stats --format yaml`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(rootOpts, cmd)
		},
	}

	return cmd
}

func runStats(opts *RootOptions, cmd *cobra.Command) error {
	h := opts.newHandle()
	defer h.Close()

	return runAction(cmd, opts, "stats", statsTask(h))
}

// statsTask summarizes the field table.
func statsTask(h *store.Handle) worker.Task {
	return func(ctx context.Context) (any, error) {
		res := &statsResult{}
		err := h.With(func(g *store.Guard) error {
			var err error
			if res.Summary, err = g.Summarize(ctx); err != nil {
				return err
			}
			res.Fields, err = g.FieldNames(ctx)
			return err
		})
		if err != nil {
			if failure.KindOf(err) != "" {
				return nil, err
			}
			return nil, failure.Store("stats", err)
		}
		return res, nil
	}
}
