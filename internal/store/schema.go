package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
)

// FieldTable is the table holding one row per (character, field name).
const FieldTable = "field"

// createFieldTableSQL is idempotent so a second import does not fail here;
// it fails later, on the first duplicate key.
const createFieldTableSQL = `
	CREATE TABLE IF NOT EXISTS field (
		character INTEGER NOT NULL,
		name      TEXT NOT NULL,
		value     TEXT NOT NULL,
		PRIMARY KEY (character, name)
	)`

// InsertFieldSQL inserts one record. No ON CONFLICT clause: a duplicate
// (character, name) must fail the import.
const InsertFieldSQL = `INSERT INTO field (character, name, value) VALUES (?, ?, ?)`

// EnsureSchema creates the field table if it does not exist.
func (g *Guard) EnsureSchema(ctx context.Context) error {
	if _, err := g.ExecContext(ctx, createFieldTableSQL); err != nil {
		return fmt.Errorf("create table %s: %w", FieldTable, err)
	}
	return nil
}

// IsConstraintViolation reports whether err is a SQLite constraint
// violation (UNIQUE, PRIMARY KEY, NOT NULL, ...) from either driver.
func IsConstraintViolation(err error) bool {
	if err == nil {
		return false
	}

	var cgoErr sqlite3.Error
	if errors.As(err, &cgoErr) {
		return cgoErr.Code == sqlite3.ErrConstraint
	}

	var pureErr *sqlite.Error
	if errors.As(err, &pureErr) {
		// Extended result codes keep the primary code in the low byte.
		return sqlite3.ErrNo(pureErr.Code()&0xff) == sqlite3.ErrConstraint
	}

	return false
}
