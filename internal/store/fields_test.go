package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSample(t *testing.T, h *Handle) {
	t.Helper()
	seedFields(t, h,
		Seed{0x4E00, "kMandarin", "yī"},
		Seed{0x4E00, "kDefinition", "one; a, an; alone"},
		Seed{0x4E00, "kTotalStrokes", "1"},
		Seed{0x4E01, "kMandarin", "dīng"},
	)
}

func TestLookup(t *testing.T) {
	h := createTestHandle(t)
	seedSample(t, h)
	ctx := context.Background()

	var fields []Field
	err := h.With(func(g *Guard) error {
		var err error
		fields, err = g.Lookup(ctx, 0x4E00)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, []Field{
		{Name: "kDefinition", Value: "one; a, an; alone"},
		{Name: "kMandarin", Value: "yī"},
		{Name: "kTotalStrokes", Value: "1"},
	}, fields)
}

func TestLookup_Unknown(t *testing.T) {
	h := createTestHandle(t)
	seedSample(t, h)

	var fields []Field
	err := h.With(func(g *Guard) error {
		var err error
		fields, err = g.Lookup(context.Background(), 0x41)
		return err
	})
	require.NoError(t, err)
	assert.NotNil(t, fields)
	assert.Empty(t, fields)
}

func TestLookup_NoTable(t *testing.T) {
	h := createTestHandle(t)

	err := h.With(func(g *Guard) error {
		_, err := g.Lookup(context.Background(), 0x4E00)
		return err
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no such table")
}

func TestSummarize(t *testing.T) {
	h := createTestHandle(t)
	seedSample(t, h)

	var s Summary
	err := h.With(func(g *Guard) error {
		var err error
		s, err = g.Summarize(context.Background())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, Summary{Rows: 4, Characters: 2, FieldNames: 3}, s)
}

func TestFieldNames(t *testing.T) {
	h := createTestHandle(t)
	seedSample(t, h)

	var counts []FieldCount
	err := h.With(func(g *Guard) error {
		var err error
		counts, err = g.FieldNames(context.Background())
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []FieldCount{
		{Name: "kDefinition", Count: 1},
		{Name: "kMandarin", Count: 2},
		{Name: "kTotalStrokes", Count: 1},
	}, counts)
}
