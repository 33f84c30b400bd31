package recordio

import (
	"io"

	"github.com/ivoronin/dedup/internal/types"
)

// WriteGroup appends one length-prefixed DuplicatesGroup record: a uint32
// item count followed by each item's (path_hash uint16, content_hash uint64).
func WriteGroup(w io.Writer, g types.DuplicatesGroup) error {
	if err := writeUint32(w, uint32(len(g.Group))); err != nil {
		return err
	}
	for _, item := range g.Group {
		if err := writeUint16(w, item.PathHash); err != nil {
			return err
		}
		if err := writeUint64(w, item.ContentHash); err != nil {
			return err
		}
	}
	return nil
}

// ReadGroup reads one DuplicatesGroup, returning io.EOF (unwrapped) when
// the stream is cleanly exhausted between groups.
func ReadGroup(r io.Reader) (types.DuplicatesGroup, error) {
	n, err := readUint32(r)
	if err != nil {
		return types.DuplicatesGroup{}, err
	}
	items := make([]types.GroupItem, n)
	for i := range items {
		ph, err := readUint16(r)
		if err != nil {
			return types.DuplicatesGroup{}, io.ErrUnexpectedEOF
		}
		ch, err := readUint64(r)
		if err != nil {
			return types.DuplicatesGroup{}, io.ErrUnexpectedEOF
		}
		items[i] = types.GroupItem{PathHash: ph, ContentHash: ch}
	}
	return types.DuplicatesGroup{Group: items}, nil
}
