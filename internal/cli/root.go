package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/roach88/unihan/internal/config"
	"github.com/roach88/unihan/internal/logging"
	"github.com/roach88/unihan/internal/store"
	"github.com/roach88/unihan/internal/worker"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Database   string
	Driver     string
	Format     string // "text" | "json" | "yaml"
	Verbose    bool

	// Config is the resolved configuration: defaults, then the config
	// file, then flags. Set before any subcommand runs.
	Config config.Config

	// IDGenerator overrides worker task IDs (default UUIDv7).
	IDGenerator worker.IDGenerator
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the unihan CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unihan",
		Short: "Load the Unihan database into SQLite and query it",
		Long: `Load the Unicode Han database (Unihan.zip) into a local SQLite file
and query it.

Every record line "U+<hex>\t<field>\t<value>" becomes one row of the
table field(character, name, value).

Examples:
  unihan import Unihan.zip
  unihan lookup 一
  unihan query "SELECT value FROM field WHERE character = 19968 AND name = 'kDefinition'"
  unihan shell --db ./chars.db`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return resolveConfig(opts, cmd)
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", store.DefaultPath, "path to SQLite database")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", store.DriverCGO, "SQLite driver (sqlite3|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", fmt.Sprintf("output format %v", ValidFormats))
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "debug logging")

	// Add subcommands
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewLookupCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewShellCommand(opts))

	return cmd
}

// resolveConfig loads the config file, applies explicitly set flags over
// it, validates the result and installs the logger.
func resolveConfig(opts *RootOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.Database.Path = opts.Database
	}
	if flags.Changed("driver") {
		cfg.Database.Driver = opts.Driver
	}
	if flags.Changed("format") {
		cfg.Output.Format = opts.Format
	}
	if opts.Verbose {
		cfg.Log.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	opts.Config = cfg
	return nil
}

// newHandle creates the store handle for one command invocation.
// The store itself is opened lazily by the first task that needs it.
func (o *RootOptions) newHandle() *store.Handle {
	return store.New(o.Config.Database.Path,
		store.WithDriver(o.Config.Database.Driver),
		store.WithBusyTimeout(o.Config.Database.BusyTimeoutMS),
	)
}

func (o *RootOptions) workerOptions() []worker.Option {
	if o.IDGenerator == nil {
		return nil
	}
	return []worker.Option{worker.WithIDGenerator(o.IDGenerator)}
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	w := cmd.OutOrStdout()
	return &OutputFormatter{
		Format:    o.Config.Output.Format,
		Writer:    w,
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
		Color:     w == os.Stdout && !color.NoColor,
	}
}

// exactArgs is cobra.ExactArgs reported as a command error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return WrapExitError(ExitCommandError, "invalid arguments", err)
		}
		return nil
	}
}
