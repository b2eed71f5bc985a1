package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/roach88/unihan/internal/store"
	"github.com/roach88/unihan/internal/worker"
)

const shellHelp = `Enter an SQL query, or one of:
  .import PATH   import a Unihan zip archive
  .lookup CHAR   show every field of one character
  .stats         summarize the imported data
  .help          show this help
  .quit          wait for running actions and exit
`

// NewShellCommand creates the interactive shell command.
func NewShellCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive query shell",
		Long: `Read queries and dot-commands line by line.

Every line is submitted as its own background action; results are
printed as they complete, so a long import does not block typing the
next query. Actions share one store handle and run one at a time
against it. On end of input or .quit the shell waits for running
actions and prints their results before exiting.

Examples:
  unihan shell
  echo "SELECT COUNT(*) FROM field" | unihan shell --format json`,
		Args:          exactArgs(0),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(rootOpts, cmd)
		},
	}

	return cmd
}

// syncWriter serializes writes from the prompt loop and the outcome printer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

func runShell(opts *RootOptions, cmd *cobra.Command) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	out := &syncWriter{w: cmd.OutOrStdout()}
	f := opts.formatter(cmd)
	f.Writer = out

	in := cmd.InOrStdin()
	interactive := false
	if file, ok := in.(*os.File); ok {
		interactive = isatty.IsTerminal(file.Fd())
	}

	h := opts.newHandle()
	defer h.Close()

	runner := worker.New(opts.workerOptions()...)

	// Single consumer: print outcomes in completion order.
	printed := make(chan struct{})
	go func() {
		defer close(printed)
		for {
			o, ok := runner.Next(context.Background())
			if !ok {
				return
			}
			// Failures are already printed; the shell keeps going.
			_ = report(f, o)
		}
	}()

	prompt := color.New(color.FgCyan)
	if !f.Color {
		prompt.DisableColor()
	}

	scanner := bufio.NewScanner(in)
	var scanErr error
	for {
		if interactive {
			prompt.Fprint(out, "unihan> ")
		}
		if !scanner.Scan() {
			scanErr = scanner.Err()
			break
		}
		if ctx.Err() != nil {
			break
		}
		if quit := dispatchShellLine(runner, h, f, scanner.Text()); quit {
			break
		}
	}

	runner.Close()
	slog.Debug("shell input closed", "undelivered", runner.Pending())
	<-printed

	if scanErr != nil {
		return WrapExitError(ExitFailure, "failed to read input", scanErr)
	}
	return nil
}

// dispatchShellLine handles one input line. Returns true on .quit.
func dispatchShellLine(runner *worker.Runner, h *store.Handle, f *OutputFormatter, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	if !strings.HasPrefix(line, ".") {
		runner.Submit("query", queryTask(h, line))
		return false
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ".quit", ".exit":
		return true
	case ".help":
		fmt.Fprint(f.Writer, shellHelp)
	case ".import":
		if arg == "" {
			_ = reportArgument(f, errors.New(".import needs a path"))
			return false
		}
		runner.Submit("import", importTask(h, arg))
	case ".lookup":
		cp, err := parseCharacter(arg)
		if err != nil {
			_ = reportArgument(f, err)
			return false
		}
		runner.Submit("lookup", lookupTask(h, cp))
	case ".stats":
		runner.Submit("stats", statsTask(h))
	default:
		_ = reportArgument(f, fmt.Errorf("unknown command %q (try .help)", name))
	}
	return false
}
