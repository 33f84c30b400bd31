package lsh

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ivoronin/dedup/internal/recordio"
	"github.com/ivoronin/dedup/internal/types"
)

// Reader streams records from one .lsh_rows run file, enforcing the
// ordering invariant at read time: consecutive records must be
// non-decreasing, or the read is fatal.
type Reader struct {
	file *os.File
	dec  *recordio.Decoder
	prev *types.BucketRow
}

// NewReader opens path for streaming.
func NewReader(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := recordio.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &Reader{file: f, dec: dec}, nil
}

// Next returns the next record, or (zero value, io.EOF) at end of stream.
func (r *Reader) Next() (types.BucketRow, error) {
	row, err := recordio.ReadBucketRow(r.dec)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return types.BucketRow{}, io.EOF
		}
		return types.BucketRow{}, fmt.Errorf("read run file: %w", err)
	}

	if r.prev != nil && row.Less(*r.prev) {
		return types.BucketRow{}, fmt.Errorf("run file out of order: %+v after %+v", row, *r.prev)
	}
	r.prev = &row
	return row, nil
}

// Close releases the underlying file and decoder.
func (r *Reader) Close() error {
	r.dec.Close()
	return r.file.Close()
}
