// Package failure classifies the errors that abort an ingestion or a query.
//
// Every failed operation produces exactly one *Error. Its Kind says which
// part of the pipeline gave up, and its Error() text is meant to be shown to
// the user verbatim:
//
//	PARSE: parse Unihan_Readings.txt line 12: invalid codepoint "ZZ"
//	STORE: execute query: no such table: nope
//	CAPACITY: execute query: query result set too long
package failure

import (
	"errors"
	"fmt"
)

// Kind categorizes operation failures.
type Kind string

const (
	// KindArchive indicates unreadable or corrupt archive input.
	KindArchive Kind = "ARCHIVE"

	// KindParse indicates a malformed record line (bad hex codepoint, too few fields).
	KindParse Kind = "PARSE"

	// KindStore indicates a table, transaction or statement failure, including
	// constraint violations.
	KindStore Kind = "STORE"

	// KindEncoding indicates bytes that are not valid text where text was expected.
	KindEncoding Kind = "ENCODING"

	// KindCapacity indicates a result set exceeding the row cap.
	KindCapacity Kind = "CAPACITY"
)

// Error is the single error value reported for a failed operation.
type Error struct {
	// Kind identifies the error category.
	Kind Kind

	// Op describes what was being done, e.g. "open archive" or "execute query".
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an Error of the given kind.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Archive wraps err as an archive failure.
func Archive(op string, err error) *Error { return New(KindArchive, op, err) }

// Parse wraps err as a record parse failure.
func Parse(op string, err error) *Error { return New(KindParse, op, err) }

// Store wraps err as a store failure.
func Store(op string, err error) *Error { return New(KindStore, op, err) }

// Encoding wraps err as a text encoding failure.
func Encoding(op string, err error) *Error { return New(KindEncoding, op, err) }

// Capacity wraps err as a result-size failure.
func Capacity(op string, err error) *Error { return New(KindCapacity, op, err) }

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// Is reports whether err carries a failure of the given kind.
// Uses errors.As to handle wrapped errors.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
