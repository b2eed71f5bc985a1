package store

import (
	"context"
	"path/filepath"
	"testing"
)

// createTestHandle creates a handle on a fresh database in a temp dir.
func createTestHandle(t *testing.T, opts ...Option) *Handle {
	t.Helper()
	h := New(filepath.Join(t.TempDir(), "test.db"), opts...)
	t.Cleanup(func() { h.Close() })
	return h
}

// seedFields creates the field table and inserts rows of (character, name, value).
func seedFields(t *testing.T, h *Handle, rows ...Seed) {
	t.Helper()
	ctx := context.Background()
	err := h.With(func(g *Guard) error {
		if err := g.EnsureSchema(ctx); err != nil {
			return err
		}
		for _, r := range rows {
			if _, err := g.ExecContext(ctx, InsertFieldSQL, r.Character, r.Name, r.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seedFields() failed: %v", err)
	}
}

// Seed is one row for seedFields.
type Seed struct {
	Character uint32
	Name      string
	Value     string
}
