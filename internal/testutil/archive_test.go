package testutil

import (
	"archive/zip"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchive_PreservesMemberOrder(t *testing.T) {
	r := Archive(t,
		Lines("b.txt", "U+4E01\tkMandarin\tdīng"),
		Lines("a.txt", "U+4E00\tkMandarin\tyī"),
	)

	zr, err := zip.NewReader(r, r.Size())
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "b.txt", zr.File[0].Name)
	assert.Equal(t, "a.txt", zr.File[1].Name)

	rc, err := zr.File[1].Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "U+4E00\tkMandarin\tyī\n", string(data))
}

func TestLines_Empty(t *testing.T) {
	assert.Empty(t, Lines("empty.txt").Data)
}
