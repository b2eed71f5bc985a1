package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/roach88/unihan/internal/ingest"
	"github.com/roach88/unihan/internal/query"
	"github.com/roach88/unihan/internal/store"
)

// importResult is the payload of a successful import.
type importResult struct {
	Archive      string `json:"archive" yaml:"archive"`
	ingest.Stats `yaml:",inline"`
}

func (r *importResult) renderText(w io.Writer) error {
	_, err := fmt.Fprintf(w, "Imported %s from %s (%s, %s skipped)\n",
		plural(int64(r.Records), "record"),
		r.Archive,
		plural(int64(r.Members), "member"),
		plural(int64(r.Skipped), "line"),
	)
	return err
}

// queryResult is a query.Result with a table rendering.
type queryResult query.Result

func (r *queryResult) renderText(w io.Writer) error {
	if len(r.Columns) == 0 {
		_, err := fmt.Fprintln(w, "OK")
		return err
	}
	renderTable(w, r.Columns, r.Rows)
	_, err := fmt.Fprintf(w, "(%s)\n", plural(int64(len(r.Rows)), "row"))
	return err
}

// lookupResult is the payload of a character lookup.
type lookupResult struct {
	Codepoint string        `json:"codepoint" yaml:"codepoint"`
	Character string        `json:"character" yaml:"character"`
	Fields    []store.Field `json:"fields" yaml:"fields"`
}

func (r *lookupResult) renderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s %s\n", r.Codepoint, r.Character); err != nil {
		return err
	}
	if len(r.Fields) == 0 {
		_, err := fmt.Fprintln(w, "no fields")
		return err
	}

	rows := make([][]string, len(r.Fields))
	for i, f := range r.Fields {
		rows[i] = []string{f.Name, f.Value}
	}
	renderTable(w, []string{"field", "value"}, rows)
	return nil
}

// statsResult is the payload of the stats command.
type statsResult struct {
	store.Summary `yaml:",inline"`
	Fields        []store.FieldCount `json:"fields" yaml:"fields"`
}

func (r *statsResult) renderText(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "%s, %s, %s\n",
		plural(r.Rows, "row"),
		plural(r.Characters, "character"),
		plural(r.FieldNames, "field name"),
	); err != nil {
		return err
	}
	if len(r.Fields) == 0 {
		return nil
	}

	rows := make([][]string, len(r.Fields))
	for i, f := range r.Fields {
		rows[i] = []string{f.Name, strconv.FormatInt(f.Count, 10)}
	}
	renderTable(w, []string{"field", "rows"}, rows)
	return nil
}
