package failure

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Message(t *testing.T) {
	err := Store("execute query", errors.New("no such table: nope"))
	assert.Equal(t, "STORE: execute query: no such table: nope", err.Error())

	bare := New(KindArchive, "", errors.New("zip: not a valid zip file"))
	assert.Equal(t, "ARCHIVE: zip: not a valid zip file", bare.Error())
}

func TestKindOf_Wrapped(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("import: %w", Parse("parse a.txt line 3", cause))

	assert.Equal(t, KindParse, KindOf(err))
	assert.True(t, Is(err, KindParse))
	assert.False(t, Is(err, KindStore))
	assert.ErrorIs(t, err, cause)
}

func TestKindOf_Plain(t *testing.T) {
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindStore))
}

func TestConstructors(t *testing.T) {
	cause := errors.New("x")
	cases := []struct {
		err  *Error
		kind Kind
	}{
		{Archive("op", cause), KindArchive},
		{Parse("op", cause), KindParse},
		{Store("op", cause), KindStore},
		{Encoding("op", cause), KindEncoding},
		{Capacity("op", cause), KindCapacity},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			assert.Equal(t, tc.kind, tc.err.Kind)
			assert.Same(t, cause, tc.err.Unwrap())
		})
	}
}
