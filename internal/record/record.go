// Package record parses Unihan data lines.
//
// A record line has the shape
//
//	U+<hex codepoint> TAB <field name> TAB <field value> [TAB ...]
//
// Anything else (header comments, blank lines) is not a record and is
// skipped without error. A line that does start with "U+" but cannot be
// parsed is an error: it means the dataset is corrupt, not that the line
// should be ignored.
package record

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Prefix marks a record line.
const Prefix = "U+"

// ErrTooFewFields is returned for a "U+" line with fewer than three
// tab-separated fields.
var ErrTooFewFields = errors.New("too few tab-separated fields")

// Record is one property of one character.
type Record struct {
	Character uint32
	Name      string
	Value     string
}

// Parse parses one line.
//
// Returns ok=false with a nil error for lines that are not records.
// Fields after the third are ignored. Name and value are taken verbatim.
func Parse(line string) (rec Record, ok bool, err error) {
	if !strings.HasPrefix(line, Prefix) {
		return Record{}, false, nil
	}

	cols := strings.Split(line, "\t")
	if len(cols) < 3 {
		return Record{}, false, fmt.Errorf("%w: got %d", ErrTooFewFields, len(cols))
	}

	cp, err := ParseCodepoint(cols[0])
	if err != nil {
		return Record{}, false, err
	}

	return Record{Character: cp, Name: cols[1], Value: cols[2]}, true, nil
}

// ParseCodepoint parses "U+XXXX" or bare "XXXX" as a base-16 unsigned
// 32-bit codepoint.
func ParseCodepoint(s string) (uint32, error) {
	hex := strings.TrimPrefix(s, Prefix)
	n, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid codepoint %q: %w", hex, err)
	}
	return uint32(n), nil
}

// Format renders a codepoint the way the dataset spells it ("U+4E00").
func Format(cp uint32) string {
	return fmt.Sprintf("U+%04X", cp)
}
