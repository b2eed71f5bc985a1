package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/unihan/internal/failure"
	"github.com/roach88/unihan/internal/ingest"
	"github.com/roach88/unihan/internal/store"
	"github.com/roach88/unihan/internal/worker"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Import a Unihan zip archive",
		Long: `Import every member of a Unihan zip archive into the store.

Each member is committed in its own transaction. If a member fails, it
is rolled back and the import stops; members before it stay imported.
Importing the same data twice fails on the first duplicate
(character, field) pair.

Examples:
  unihan import Unihan.zip
  unihan import --db ./chars.db --driver sqlite Unihan.zip`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runImport(opts *RootOptions, archive string, cmd *cobra.Command) error {
	h := opts.newHandle()
	defer h.Close()

	opts.formatter(cmd).VerboseLog("importing %s into %s", archive, h.Path())
	return runAction(cmd, opts, "import", importTask(h, archive))
}

// importTask ingests the archive file at path.
func importTask(h *store.Handle, path string) worker.Task {
	return func(ctx context.Context) (any, error) {
		f, err := os.Open(path)
		if err != nil {
			return nil, failure.Archive("open archive", err)
		}
		defer f.Close()

		stats, err := ingest.Ingest(ctx, h, f)
		if err != nil {
			return nil, err
		}
		return &importResult{Archive: filepath.Base(path), Stats: stats}, nil
	}
}
