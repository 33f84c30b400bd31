package recordio

import (
	"io"

	"github.com/ivoronin/dedup/internal/types"
)

// BucketRowSize is the on-wire size of one BucketRow: u8 + u64 + u16 + u64.
// The reference packs this as a repr(packed) struct; Go structs cannot be
// packed portably across all field orderings, so we serialize field-by-field
// in a documented little-endian layout instead.
const BucketRowSize = 1 + 8 + 2 + 8

// WriteBucketRow appends one record in its fixed 19-byte wire layout.
func WriteBucketRow(w io.Writer, r types.BucketRow) error {
	var buf [BucketRowSize]byte
	buf[0] = r.BucketIndex
	putUint64(buf[1:9], r.BucketHash)
	putUint16(buf[9:11], r.PathHash)
	putUint64(buf[11:19], r.ContentHash)
	_, err := w.Write(buf[:])
	return err
}

// ReadBucketRow reads one record, returning io.EOF (unwrapped) when the
// stream is cleanly exhausted between records.
func ReadBucketRow(r io.Reader) (types.BucketRow, error) {
	var buf [BucketRowSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return types.BucketRow{}, io.ErrUnexpectedEOF
		}
		return types.BucketRow{}, err
	}
	return types.BucketRow{
		BucketIndex: buf[0],
		BucketHash:  getUint64(buf[1:9]),
		PathHash:    getUint16(buf[9:11]),
		ContentHash: getUint64(buf[11:19]),
	}, nil
}

func putUint64(b []byte, v uint64) {
	for i := 0; i < 8; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func getUint64(b []byte) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v |= uint64(b[i]) << (8 * i)
	}
	return v
}

func putUint16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

func getUint16(b []byte) uint16 {
	return uint16(b[0]) | uint16(b[1])<<8
}
