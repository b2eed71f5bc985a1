package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
)

// Field is one named property of a character.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// FieldCount is the number of characters carrying a field name.
type FieldCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int64  `json:"count" yaml:"count"`
}

// Summary holds table-wide counts.
type Summary struct {
	Rows       int64 `json:"rows" yaml:"rows"`
	Characters int64 `json:"characters" yaml:"characters"`
	FieldNames int64 `json:"field_names" yaml:"field_names"`
}

// Lookup returns every field of one character, ordered by name.
// Returns an empty slice (not nil) if the character has no fields.
func (g *Guard) Lookup(ctx context.Context, character uint32) ([]Field, error) {
	query, args, err := sq.Select("name", "value").
		From(FieldTable).
		Where(sq.Eq{"character": character}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lookup: %w", err)
	}

	rows, err := g.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query fields: %w", err)
	}
	defer rows.Close()

	fields := []Field{}
	for rows.Next() {
		var f Field
		if err := rows.Scan(&f.Name, &f.Value); err != nil {
			return nil, fmt.Errorf("scan field: %w", err)
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fields: %w", err)
	}

	return fields, nil
}

// Summarize counts rows, distinct characters and distinct field names.
func (g *Guard) Summarize(ctx context.Context) (Summary, error) {
	query, args, err := sq.Select(
		"COUNT(*)",
		"COUNT(DISTINCT character)",
		"COUNT(DISTINCT name)",
	).From(FieldTable).ToSql()
	if err != nil {
		return Summary{}, fmt.Errorf("build summary: %w", err)
	}

	var s Summary
	if err := g.QueryRowContext(ctx, query, args...).Scan(&s.Rows, &s.Characters, &s.FieldNames); err != nil {
		return Summary{}, fmt.Errorf("query summary: %w", err)
	}
	return s, nil
}

// FieldNames returns each distinct field name with the number of rows using
// it, ordered by name.
func (g *Guard) FieldNames(ctx context.Context) ([]FieldCount, error) {
	query, args, err := sq.Select("name", "COUNT(*)").
		From(FieldTable).
		GroupBy("name").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build field names: %w", err)
	}

	rows, err := g.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query field names: %w", err)
	}
	defer rows.Close()

	counts := []FieldCount{}
	for rows.Next() {
		var fc FieldCount
		if err := rows.Scan(&fc.Name, &fc.Count); err != nil {
			return nil, fmt.Errorf("scan field name: %w", err)
		}
		counts = append(counts, fc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field names: %w", err)
	}

	return counts, nil
}
