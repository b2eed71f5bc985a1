package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"

	"github.com/roach88/unihan/internal/failure"
)

// Supported database/sql driver names.
const (
	DriverCGO  = "sqlite3" // github.com/mattn/go-sqlite3
	DriverPure = "sqlite"  // modernc.org/sqlite
)

// DefaultPath is the database file used when none is configured.
const DefaultPath = "unihan.db"

// DefaultBusyTimeout is the default busy_timeout pragma in milliseconds.
const DefaultBusyTimeout = 5000

// ErrClosed is returned by Acquire after Close.
var ErrClosed = errors.New("store: handle closed")

const opOpen = "open store"

// Handle is the single shared connection to the store.
//
// The underlying database is opened on the first Acquire and reused after
// that. If that open fails, the failure is sticky: every Acquire returns
// it and the open is never retried.
//
// Thread-safety: Acquire blocks until no other Guard is live.
type Handle struct {
	path        string
	driver      string
	busyTimeout int

	// mu is held for the lifetime of a Guard.
	mu sync.Mutex

	// Guarded by mu.
	opened  bool
	closed  bool
	db      *sql.DB
	openErr error
}

// Option configures a Handle.
type Option func(*Handle)

// WithDriver selects the database/sql driver (DriverCGO or DriverPure).
func WithDriver(driver string) Option {
	return func(h *Handle) {
		h.driver = driver
	}
}

// WithBusyTimeout sets the busy_timeout pragma in milliseconds.
func WithBusyTimeout(ms int) Option {
	return func(h *Handle) {
		h.busyTimeout = ms
	}
}

// New creates a Handle for the database at path. Nothing is opened until
// the first Acquire.
func New(path string, opts ...Option) *Handle {
	h := &Handle{
		path:        path,
		driver:      DriverCGO,
		busyTimeout: DefaultBusyTimeout,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Path returns the database path the handle was created with.
func (h *Handle) Path() string {
	return h.path
}

// Acquire blocks until the store is free and returns a Guard granting
// exclusive access. The caller must Release the Guard on every path:
//
//	g, err := h.Acquire()
//	if err != nil {
//	    return err
//	}
//	defer g.Release()
func (h *Handle) Acquire() (*Guard, error) {
	h.mu.Lock()

	if h.closed {
		h.mu.Unlock()
		return nil, ErrClosed
	}

	if !h.opened {
		h.opened = true
		h.db, h.openErr = open(h.driver, h.path, h.busyTimeout)
	}
	if h.openErr != nil {
		h.mu.Unlock()
		return nil, h.openErr
	}

	return &Guard{h: h, db: h.db}, nil
}

// With acquires the store, runs fn and releases the store, even if fn panics.
func (h *Handle) With(fn func(g *Guard) error) error {
	g, err := h.Acquire()
	if err != nil {
		return err
	}
	defer g.Release()
	return fn(g)
}

// Close waits for the current holder, then closes the database.
// Safe to call on a handle that was never opened, and more than once.
func (h *Handle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.db == nil {
		return nil
	}
	return h.db.Close()
}

// IsOpenFailure reports whether err is the (sticky) failure to open the
// database, after which the handle is unusable.
func IsOpenFailure(err error) bool {
	if errors.Is(err, ErrClosed) {
		return true
	}
	var fe *failure.Error
	return errors.As(err, &fe) && fe.Kind == failure.KindStore && fe.Op == opOpen
}

// open creates or opens the database file and applies pragmas.
func open(driver, path string, busyTimeout int) (*sql.DB, error) {
	// Open database (creates file if doesn't exist)
	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, failure.Store(opOpen, fmt.Errorf("failed to open database: %w", err))
	}

	// SQLite only supports one writer at a time, and the Guard already
	// serializes callers, so one connection is all we need.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, failure.Store(opOpen, fmt.Errorf("failed to connect to database %s: %w", path, err))
	}

	if err := applyPragmas(db, busyTimeout); err != nil {
		_ = db.Close()
		return nil, failure.Store(opOpen, fmt.Errorf("failed to apply pragmas: %w", err))
	}

	return db, nil
}

// applyPragmas sets required SQLite configuration.
func applyPragmas(db *sql.DB, busyTimeout int) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", busyTimeout),
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// Guard is exclusive access to the store. It is not safe for concurrent
// use and must not be used after Release.
type Guard struct {
	h        *Handle
	db       *sql.DB
	released bool
}

// Release gives up exclusive access. Calling it twice is a no-op.
func (g *Guard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.db = nil
	g.h.mu.Unlock()
}

// ExecContext executes a statement that returns no rows.
func (g *Guard) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return g.db.ExecContext(ctx, query, args...)
}

// QueryContext executes a query and returns the resulting rows.
// Callers are responsible for closing the returned rows.
func (g *Guard) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return g.db.QueryContext(ctx, query, args...)
}

// QueryRowContext executes a query expected to return at most one row.
func (g *Guard) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return g.db.QueryRowContext(ctx, query, args...)
}

// PrepareContext prepares a statement verbatim.
func (g *Guard) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return g.db.PrepareContext(ctx, query)
}

// BeginTx starts a transaction. Only one can be open at a time because
// the pool holds a single connection.
func (g *Guard) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return g.db.BeginTx(ctx, nil)
}
