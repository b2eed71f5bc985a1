// Package query runs ad hoc SQL against the store and renders the result
// as text.
//
// The query text is executed verbatim, with no validation or parameter
// binding. Results are capped at MaxRows: a larger result is an error, not
// a truncation.
package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/unihan/internal/failure"
	"github.com/roach88/unihan/internal/store"
)

// MaxRows is the largest result set Execute returns.
const MaxRows = 500

// ErrResultTooLong is returned when a query yields more than MaxRows rows.
var ErrResultTooLong = errors.New("query result set too long")

// Result is a rendered query result. Every row has len(Columns) cells.
type Result struct {
	Columns []string   `json:"columns" yaml:"columns"`
	Rows    [][]string `json:"rows" yaml:"rows"`
}

// Execute runs q and renders every cell.
//
// Returns a *failure.Error of kind STORE for preparation or execution
// failures, ENCODING for invalid text, CAPACITY for more than MaxRows rows.
// On error no partial result is returned.
func Execute(ctx context.Context, h *store.Handle, q string) (*Result, error) {
	g, err := h.Acquire()
	if err != nil {
		return nil, err
	}
	defer g.Release()

	stmt, err := g.PrepareContext(ctx, q)
	if err != nil {
		return nil, failure.Store("prepare query", err)
	}
	defer stmt.Close()

	rows, err := stmt.QueryContext(ctx)
	if err != nil {
		return nil, failure.Store("execute query", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, failure.Store("read columns", err)
	}

	result := &Result{Columns: columns, Rows: [][]string{}}

	// No columns: empty or comment-only text, or a statement such as DDL.
	// Step it once; mattn reports a row forever for a statement-less text.
	if len(columns) == 0 {
		rows.Next()
		if err := rows.Err(); err != nil {
			return nil, failure.Store("execute query", err)
		}
		return result, nil
	}

	// Scan targets are reused; each row is rendered before the next Scan.
	cells := make([]any, len(columns))
	dest := make([]any, len(columns))
	for i := range cells {
		dest[i] = &cells[i]
	}

	for rows.Next() {
		if len(result.Rows) >= MaxRows {
			return nil, failure.Capacity("execute query", ErrResultTooLong)
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, failure.Store("scan row", err)
		}

		row, err := renderRow(len(result.Rows)+1, cells)
		if err != nil {
			return nil, err
		}
		result.Rows = append(result.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, failure.Store("execute query", err)
	}

	slog.Debug("query executed", "columns", len(columns), "rows", len(result.Rows))
	return result, nil
}

// renderRow renders scanned cells in column order.
func renderRow(n int, cells []any) ([]string, error) {
	row := make([]string, len(cells))
	for i, c := range cells {
		op := fmt.Sprintf("render row %d column %d", n, i+1)
		v, err := FromDriver(c)
		if err != nil {
			return nil, failure.Store(op, err)
		}
		s, err := v.Render()
		if err != nil {
			return nil, failure.Encoding(op, err)
		}
		row[i] = s
	}
	return row, nil
}
