package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/roach88/unihan/internal/failure"
	"github.com/roach88/unihan/internal/record"
	"github.com/roach88/unihan/internal/store"
	"github.com/roach88/unihan/internal/worker"
)

// errNotACharacter is returned for lookup arguments that do not name one
// code point.
var errNotACharacter = errors.New("expected one character, U+XXXX or a hex codepoint")

// NewLookupCommand creates the lookup command.
func NewLookupCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup <character>",
		Short: "Show every field of one character",
		Long: `Show every field stored for one character.

The character is given literally (NFC-normalized first, so a decomposed
sequence such as "e" + U+0301 is accepted), as U+XXXX, or as bare hex.
A single character is always taken literally: "A" is U+0041, use U+000A
for the code point 0xA.

Examples:
  unihan lookup 一
  unihan lookup U+4E00
  unihan lookup 4e00`,
		Args:          exactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runLookup(opts *RootOptions, arg string, cmd *cobra.Command) error {
	cp, err := parseCharacter(arg)
	if err != nil {
		return reportArgument(opts.formatter(cmd), err)
	}

	h := opts.newHandle()
	defer h.Close()

	return runAction(cmd, opts, "lookup", lookupTask(h, cp))
}

// parseCharacter resolves a lookup argument to a code point.
func parseCharacter(arg string) (uint32, error) {
	s := norm.NFC.String(strings.TrimSpace(arg))
	if s == "" {
		return 0, errNotACharacter
	}

	if utf8.RuneCountInString(s) == 1 {
		r, _ := utf8.DecodeRuneInString(s)
		return uint32(r), nil
	}

	if rest, ok := strings.CutPrefix(s, "u+"); ok {
		s = record.Prefix + rest
	}
	cp, err := record.ParseCodepoint(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errNotACharacter, arg)
	}
	if cp > unicode.MaxRune {
		return 0, fmt.Errorf("codepoint %s is beyond U+10FFFF", record.Format(cp))
	}
	return cp, nil
}

// lookupTask reads every field of cp.
func lookupTask(h *store.Handle, cp uint32) worker.Task {
	return func(ctx context.Context) (any, error) {
		var fields []store.Field
		err := h.With(func(g *store.Guard) error {
			var err error
			fields, err = g.Lookup(ctx, cp)
			return err
		})
		if err != nil {
			if failure.KindOf(err) != "" {
				return nil, err
			}
			return nil, failure.Store("lookup "+record.Format(cp), err)
		}

		res := &lookupResult{Codepoint: record.Format(cp), Fields: fields}
		if r := rune(cp); utf8.ValidRune(r) {
			res.Character = string(r)
		}
		return res, nil
	}
}
