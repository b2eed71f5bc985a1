// Package store owns the SQLite file that holds imported Unihan fields.
//
// All access goes through a Handle. The Handle opens the database lazily,
// on the first Acquire, and serializes every logical operation behind a
// single mutex: an import holds the Guard for the whole archive, a query
// holds it for the whole result set. Nothing else in the module touches
// the *sql.DB directly.
//
// # Schema
//
// One table, created by the importer (not when the Handle opens) so that querying a fresh
// database reports "no such table" rather than an empty result:
//
//	CREATE TABLE field (
//	    character INTEGER NOT NULL,
//	    name      TEXT NOT NULL,
//	    value     TEXT NOT NULL,
//	    PRIMARY KEY (character, name)
//	)
//
// Duplicate (character, name) pairs are a constraint violation, never an
// upsert. IsConstraintViolation recognizes them from either driver.
//
// # Drivers
//
//   - "sqlite3": github.com/mattn/go-sqlite3 (cgo, default)
//   - "sqlite":  modernc.org/sqlite (pure Go)
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout (default 5000ms)
//   - one open connection
package store
