package record

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_NonRecordLines(t *testing.T) {
	lines := []string{
		"",
		"# Unihan_Readings.txt",
		"#\tU+4E00\tkMandarin\tyī",
		"u+4E00\tkMandarin\tyī",
		" U+4E00\tkMandarin\tyī",
		"EOF",
	}
	for _, line := range lines {
		t.Run(strconv.Quote(line), func(t *testing.T) {
			rec, ok, err := Parse(line)
			require.NoError(t, err)
			assert.False(t, ok)
			assert.Equal(t, Record{}, rec)
		})
	}
}

func TestParse_WellFormed(t *testing.T) {
	rec, ok, err := Parse("U+4E00\ta\tb")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Record{Character: 0x4E00, Name: "a", Value: "b"}, rec)
}

func TestParse_RealLine(t *testing.T) {
	rec, ok, err := Parse("U+20000\tkMandarin\tkē hē")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint32(0x20000), rec.Character)
	assert.Equal(t, "kMandarin", rec.Name)
	assert.Equal(t, "kē hē", rec.Value)
}

func TestParse_ExtraFieldsIgnored(t *testing.T) {
	rec, ok, err := Parse("U+3400\tkRSUnicode\t1.4\tignored\talso ignored")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Record{Character: 0x3400, Name: "kRSUnicode", Value: "1.4"}, rec)
}

func TestParse_EmptyValueKept(t *testing.T) {
	rec, ok, err := Parse("U+3400\tkDefinition\t")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", rec.Value)
}

func TestParse_InvalidHex(t *testing.T) {
	_, ok, err := Parse("U+ZZ\ta\tb")
	require.Error(t, err)
	assert.False(t, ok)
	assert.Contains(t, err.Error(), `invalid codepoint "ZZ"`)
}

func TestParse_CodepointOutOfRange(t *testing.T) {
	_, _, err := Parse("U+100000000\ta\tb")
	require.Error(t, err)
}

func TestParse_TooFewFields(t *testing.T) {
	for _, line := range []string{"U+4E00", "U+4E00\tkMandarin"} {
		_, ok, err := Parse(line)
		require.Error(t, err, line)
		assert.ErrorIs(t, err, ErrTooFewFields)
		assert.False(t, ok)
	}
}

func TestParseCodepoint(t *testing.T) {
	cp, err := ParseCodepoint("U+4e00")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x4E00), cp)

	cp, err = ParseCodepoint("20000")
	require.NoError(t, err)
	assert.Equal(t, uint32(0x20000), cp)

	_, err = ParseCodepoint("U+")
	require.Error(t, err)

	_, err = ParseCodepoint("U++4E00")
	require.Error(t, err, "signs are not accepted")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "U+4E00", Format(0x4E00))
	assert.Equal(t, "U+0041", Format(0x41))
	assert.Equal(t, "U+20000", Format(0x20000))
}
