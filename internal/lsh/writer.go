package lsh

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"github.com/ivoronin/dedup/internal/recordio"
	"github.com/ivoronin/dedup/internal/types"
)

// DefaultSpillThreshold is the default in-memory buffer size, in bytes,
// before the Writer spills a sorted run file (the --lsh-buckets-size-limit
// CLI flag overrides it).
const DefaultSpillThreshold = 1 << 30 // 1 GiB

// Writer is a streaming, bounded-memory external-sort producer: it buffers
// bucket records in memory and spills sorted, zstd-compressed run files to
// a working directory once the buffer crosses a size threshold.
//
// A Writer is owned by exactly one Signer worker; uniqueness of spilled
// filenames comes from a fresh UUID per flush, so concurrent Writers
// sharing the same folder never collide and need no locking.
type Writer struct {
	folder    string
	threshold uint64

	buffer     []types.BucketRow
	files      []string
	columnName string
}

// NewWriter creates a Writer that spills into folder once the buffer
// reaches threshold bytes.
func NewWriter(folder string, threshold uint64) *Writer {
	return &Writer{folder: folder, threshold: threshold}
}

// WriteRows appends rows to the buffer and records sourceFile as a
// contributor. All calls on one Writer must agree on columnName: one
// writer produces rows for exactly one column.
func (w *Writer) WriteRows(sourceFile, columnName string, rows []types.BucketRow) error {
	if w.columnName != "" && w.columnName != columnName {
		return fmt.Errorf("lsh writer: column %q disagrees with established column %q", columnName, w.columnName)
	}
	w.columnName = columnName

	w.buffer = append(w.buffer, rows...)
	w.files = append(w.files, sourceFile)

	if uint64(recordio.BucketRowSize)*uint64(len(w.buffer)) >= w.threshold {
		return w.Flush()
	}
	return nil
}

// Flush is a no-op on an empty buffer. Otherwise it mints a fresh unique
// prefix, sorts both the file list and the record buffer, and writes a
// `<prefix>.lsh_rows` run file plus a `<prefix>.lsh_meta` sidecar, then
// clears the buffer for the next batch.
func (w *Writer) Flush() error {
	if len(w.buffer) == 0 {
		return nil
	}

	prefix := uuid.NewString()

	slices.Sort(w.files)
	slices.SortFunc(w.buffer, func(a, b types.BucketRow) int { return a.Compare(b) })

	if err := w.writeRowsFile(prefix); err != nil {
		return err
	}
	if err := w.writeMetaFile(prefix); err != nil {
		return err
	}

	w.buffer = w.buffer[:0]
	w.files = w.files[:0]
	return nil
}

func (w *Writer) writeRowsFile(prefix string) error {
	path := filepath.Join(w.folder, prefix+".lsh_rows")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create run file: %w", err)
	}
	defer f.Close()

	enc, err := recordio.NewWriter(f)
	if err != nil {
		return err
	}
	for _, row := range w.buffer {
		if err := recordio.WriteBucketRow(enc, row); err != nil {
			enc.Close()
			return fmt.Errorf("write run file %s: %w", path, err)
		}
	}
	return enc.Close()
}

func (w *Writer) writeMetaFile(prefix string) error {
	path := filepath.Join(w.folder, prefix+".lsh_meta")
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create meta file: %w", err)
	}
	defer f.Close()

	enc, err := recordio.NewWriter(f)
	if err != nil {
		return err
	}
	meta := recordio.Meta{Files: w.files, ColumnName: w.columnName, FilePrefix: prefix}
	if err := recordio.WriteMeta(enc, meta); err != nil {
		enc.Close()
		return fmt.Errorf("write meta file %s: %w", path, err)
	}
	return enc.Close()
}
