// Package ingest loads a Unihan zip archive into the store.
//
// Each archive member is imported in its own transaction, in archive order.
// A failing member is rolled back and stops the import; members committed
// before it stay committed. An import is therefore not atomic as a whole.
package ingest

import (
	"archive/zip"
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/roach88/unihan/internal/failure"
	"github.com/roach88/unihan/internal/record"
	"github.com/roach88/unihan/internal/store"
)

// maxLineSize bounds a single line in an archive member.
const maxLineSize = 1 << 20

// ErrInvalidUTF8 is returned for a line that is not valid UTF-8.
var ErrInvalidUTF8 = errors.New("line is not valid UTF-8")

// Source is a seekable archive byte stream. *os.File and *bytes.Reader
// both satisfy it.
type Source interface {
	io.ReaderAt
	io.Seeker
}

// Stats summarizes a successful import.
type Stats struct {
	Members int `json:"members" yaml:"members"`
	Records int `json:"records" yaml:"records"`
	Skipped int `json:"skipped" yaml:"skipped"` // non-record lines
}

// Ingest imports every member of the archive in src.
//
// The store is held for the whole call. Returns a *failure.Error on any
// failure; Stats are only meaningful on success.
func Ingest(ctx context.Context, h *store.Handle, src Source) (Stats, error) {
	start := time.Now()

	zr, err := openArchive(src)
	if err != nil {
		return Stats{}, err
	}

	g, err := h.Acquire()
	if err != nil {
		return Stats{}, err
	}
	defer g.Release()

	if err := g.EnsureSchema(ctx); err != nil {
		return Stats{}, failure.Store("prepare store", err)
	}

	var total Stats
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			slog.Debug("skipping directory entry", "member", f.Name)
			continue
		}

		memberStart := time.Now()
		ms, err := ingestMember(ctx, g, f)
		if err != nil {
			slog.Warn("import stopped",
				"member", f.Name,
				"committed_members", total.Members,
				"error", err,
			)
			return Stats{}, err
		}

		total.Members++
		total.Records += ms.Records
		total.Skipped += ms.Skipped
		slog.Info("member committed",
			"member", f.Name,
			"records", ms.Records,
			"duration", time.Since(memberStart),
		)
	}

	slog.Info("import complete",
		"members", total.Members,
		"records", total.Records,
		"duration", time.Since(start),
	)
	return total, nil
}

// openArchive reads the zip central directory from src.
func openArchive(src Source) (*zip.Reader, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, failure.Archive("open archive", fmt.Errorf("seek: %w", err))
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, failure.Archive("open archive", fmt.Errorf("seek: %w", err))
	}

	zr, err := zip.NewReader(src, size)
	if err != nil {
		return nil, failure.Archive("open archive", err)
	}
	return zr, nil
}

// ingestMember imports one archive member inside one transaction.
func ingestMember(ctx context.Context, g *store.Guard, f *zip.File) (Stats, error) {
	rc, err := f.Open()
	if err != nil {
		return Stats{}, failure.Archive("open "+f.Name, err)
	}
	defer rc.Close()

	tx, err := g.BeginTx(ctx)
	if err != nil {
		return Stats{}, failure.Store("begin "+f.Name, err)
	}
	// No-op after a successful Commit.
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, store.InsertFieldSQL)
	if err != nil {
		return Stats{}, failure.Store("prepare insert", err)
	}
	defer stmt.Close()

	stats, err := insertLines(ctx, stmt, f.Name, rc)
	if err != nil {
		return Stats{}, err
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, failure.Store("commit "+f.Name, err)
	}
	stats.Members = 1
	return stats, nil
}

// insertLines streams r line by line, inserting every record.
func insertLines(ctx context.Context, stmt *sql.Stmt, member string, r io.Reader) (Stats, error) {
	var stats Stats

	// Strip a leading byte-order mark; bytes pass through unchanged otherwise.
	decoded := transform.NewReader(r, unicode.BOMOverride(transform.Nop))

	scanner := bufio.NewScanner(decoded)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if !utf8.ValidString(line) {
			return Stats{}, failure.Encoding(lineOp("decode", member, lineNo), ErrInvalidUTF8)
		}

		rec, ok, err := record.Parse(line)
		if err != nil {
			return Stats{}, failure.Parse(lineOp("parse", member, lineNo), err)
		}
		if !ok {
			stats.Skipped++
			continue
		}

		if _, err := stmt.ExecContext(ctx, rec.Character, rec.Name, rec.Value); err != nil {
			return Stats{}, failure.Store(lineOp("insert", member, lineNo), fmt.Errorf("%s %s: %w", record.Format(rec.Character), rec.Name, err))
		}
		stats.Records++
	}

	if err := scanner.Err(); err != nil {
		return Stats{}, failure.Archive("read "+member, err)
	}
	return stats, nil
}

func lineOp(verb, member string, line int) string {
	return fmt.Sprintf("%s %s line %d", verb, member, line)
}
