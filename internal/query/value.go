package query

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mattn/go-sqlite3"
)

// ErrInvalidText is returned when rendering a Text value that is not valid UTF-8.
var ErrInvalidText = errors.New("text value is not valid UTF-8")

// Value is a sealed interface over the storage classes a cell can hold.
// Only Null, Integer, Real, Text and Blob implement it.
type Value interface {
	// Render returns the display form of the value.
	Render() (string, error)

	value() // Sealed - only these types implement it
}

// Null is an absent value.
type Null struct{}

func (Null) value() {}

// Render returns "NULL".
func (Null) Render() (string, error) { return "NULL", nil }

// Integer is a 64-bit signed integer.
type Integer int64

func (Integer) value() {}

// Render returns the decimal form.
func (v Integer) Render() (string, error) {
	return strconv.FormatInt(int64(v), 10), nil
}

// Real is a 64-bit float.
type Real float64

func (Real) value() {}

// Render returns the shortest decimal form that round-trips, never in
// exponent notation (1.5, 100, 0.000001).
func (v Real) Render() (string, error) {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN", nil
	case math.IsInf(f, 1):
		return "inf", nil
	case math.IsInf(f, -1):
		return "-inf", nil
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// Text is a string value. It is rendered verbatim, but only if it is valid UTF-8.
type Text string

func (Text) value() {}

// Render returns the text unchanged, or ErrInvalidText.
func (v Text) Render() (string, error) {
	if !utf8.ValidString(string(v)) {
		return "", ErrInvalidText
	}
	return string(v), nil
}

// Blob is raw bytes.
type Blob []byte

func (Blob) value() {}

// Render lists the bytes in decimal: [1, 2, 255].
func (v Blob) Render() (string, error) {
	var b strings.Builder
	b.WriteByte('[')
	for i, c := range v {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strconv.Itoa(int(c)))
	}
	b.WriteByte(']')
	return b.String(), nil
}

// FromDriver converts a value scanned into an `any` from database/sql.
//
// Both SQLite drivers produce nil, int64, float64, string and []byte.
// mattn/go-sqlite3 additionally yields time.Time for columns declared as
// DATE/DATETIME/TIMESTAMP; those become Text in the driver's own layout.
func FromDriver(src any) (Value, error) {
	switch v := src.(type) {
	case nil:
		return Null{}, nil
	case int64:
		return Integer(v), nil
	case float64:
		return Real(v), nil
	case string:
		return Text(v), nil
	case []byte:
		return Blob(v), nil
	case bool:
		if v {
			return Integer(1), nil
		}
		return Integer(0), nil
	case time.Time:
		return Text(v.Format(sqlite3.SQLiteTimestampFormats[0])), nil
	default:
		return nil, fmt.Errorf("unsupported driver value type %T", src)
	}
}
