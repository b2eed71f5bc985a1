package cli

import (
	"bytes"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/unihan/internal/testutil"
	"github.com/roach88/unihan/internal/worker"
)

// executeCommand runs the root command with args and returns stdout.
// Task IDs are "task-1", "task-2", ...
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ids := make([]string, 16)
	for i := range ids {
		ids[i] = fmt.Sprintf("task-%d", i+1)
	}

	opts := &RootOptions{IDGenerator: worker.NewFixedGenerator(ids...)}
	cmd := newRootCommand(opts)

	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func tempDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "unihan.db")
}

// fixtureArchive writes a small archive: 2 members, 3 records, 1 comment.
func fixtureArchive(t *testing.T) string {
	t.Helper()
	return testutil.WriteArchive(t,
		testutil.Lines("Unihan_Readings.txt",
			"# Unihan_Readings.txt",
			"U+4E00\tkMandarin\tyī",
			"U+4E01\tkMandarin\tdīng",
		),
		testutil.Lines("Unihan_DictionaryLikeData.txt",
			"U+4E00\tkTotalStrokes\t1",
		),
	)
}

// importedDB returns a database with fixtureArchive already imported.
func importedDB(t *testing.T) string {
	t.Helper()
	db := tempDB(t)
	if _, err := executeCommand(t, "--db", db, "import", fixtureArchive(t)); err != nil {
		t.Fatalf("import fixture: %v", err)
	}
	return db
}

func assertGolden(t *testing.T, name, got string) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(got))
}
