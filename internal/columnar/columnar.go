// Package columnar adapts parquet-go to the narrow contract every stage of
// the pipeline needs: stream one string column out of a parquet file, or
// batch one string column into a freshly written file, with zstd
// compression.
package columnar

import (
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// writeBatchSize is the number of buffered rows flushed to the underlying
// parquet writer at once.
const writeBatchSize = 1024

// rowBatchSize bounds how many rows Reader pulls from the file per
// ReadRows call.
const rowBatchSize = 256

// Reader streams a single named string column out of a parquet file,
// row group by row group.
type Reader struct {
	file   *os.File
	rows   *parquet.Reader
	colIdx int

	buf []parquet.Row
	pos int
	n   int
}

// NewReader opens path and resolves column against its schema.
func NewReader(path, column string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet file %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	pf, err := parquet.OpenFile(f, info.Size())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open parquet file %s: %w", path, err)
	}

	leaf, ok := pf.Schema().Lookup(column)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("column %q not found in %s", column, path)
	}
	if leaf.Node.Type().Kind() != parquet.ByteArray {
		f.Close()
		return nil, fmt.Errorf("column %q in %s is not a string column (kind %s)", column, path, leaf.Node.Type().Kind())
	}

	return &Reader{
		file:   f,
		rows:   parquet.NewReader(pf),
		colIdx: leaf.ColumnIndex,
		buf:    make([]parquet.Row, rowBatchSize),
	}, nil
}

func (r *Reader) fill() error {
	if r.pos < r.n {
		return nil
	}
	n, err := r.rows.ReadRows(r.buf)
	r.pos, r.n = 0, n
	if n == 0 {
		if err == nil {
			return io.EOF
		}
		return err
	}
	if err != nil && err != io.EOF {
		return err
	}
	return nil
}

// HasDataLeft reports whether at least one row remains to be read.
func (r *Reader) HasDataLeft() (bool, error) {
	if r.pos < r.n {
		return true, nil
	}
	err := r.fill()
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return r.pos < r.n, nil
}

// Next returns the column's value for the next row.
func (r *Reader) Next() (string, error) {
	has, err := r.HasDataLeft()
	if err != nil {
		return "", err
	}
	if !has {
		return "", io.EOF
	}
	value := r.buf[r.pos][r.colIdx]
	r.pos++
	return value.String(), nil
}

// Close releases the underlying file.
func (r *Reader) Close() error {
	return r.file.Close()
}

// Writer batches a single named string column into a freshly created
// zstd-compressed parquet file.
type Writer struct {
	file   *os.File
	writer *parquet.Writer
	buf    []parquet.Row
}

// NewWriter creates path with a single-column schema named column.
func NewWriter(path, column string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file %s: %w", path, err)
	}

	schema := parquet.NewSchema("record", parquet.Group{column: parquet.String()})
	w := parquet.NewWriter(f, schema, parquet.Compression(&zstd.Codec{}))

	return &Writer{file: f, writer: w}, nil
}

// Write appends text, flushing to the underlying writer once the batch
// fills.
func (w *Writer) Write(text string) error {
	w.buf = append(w.buf, parquet.Row{parquet.ValueOf(text)})
	if len(w.buf) >= writeBatchSize {
		return w.flush()
	}
	return nil
}

func (w *Writer) flush() error {
	if len(w.buf) == 0 {
		return nil
	}
	if _, err := w.writer.WriteRows(w.buf); err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	w.buf = w.buf[:0]
	return nil
}

// Close flushes any buffered rows and closes the file.
func (w *Writer) Close() error {
	if err := w.flush(); err != nil {
		return err
	}
	if err := w.writer.Close(); err != nil {
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}
