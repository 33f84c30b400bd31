package recordio

import (
	"io"

	"github.com/ivoronin/dedup/internal/types"
)

// WriteFilterHash appends one 8-byte content hash to a filter file.
func WriteFilterHash(w io.Writer, ch types.ContentHash) error {
	return writeUint64(w, ch)
}

// ReadFilterHash reads one content hash, returning io.EOF (unwrapped) when
// the stream is cleanly exhausted.
func ReadFilterHash(r io.Reader) (types.ContentHash, error) {
	return readUint64(r)
}
