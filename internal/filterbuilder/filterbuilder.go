// Package filterbuilder turns the duplicates-groups file into per-path
// filter files: for every group, every member but the first (the sorted
// survivor) has its content hash appended to the filter file owned by its
// PathHash.
package filterbuilder

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ivoronin/dedup/internal/pathcontext"
	"github.com/ivoronin/dedup/internal/recordio"
	"github.com/ivoronin/dedup/internal/types"
)

// Run reads groupsFile and writes one filter file per PathHash that owns a
// dropped duplicate, under ctx's filters directory.
func Run(ctx *pathcontext.Context, groupsFile string) error {
	in, err := os.Open(groupsFile)
	if err != nil {
		return fmt.Errorf("open duplicates groups file: %w", err)
	}
	defer in.Close()

	dec, err := recordio.NewReader(in)
	if err != nil {
		return err
	}
	defer dec.Close()

	writers := make(map[types.PathHash]*zstdFilterWriter)
	defer func() {
		for _, w := range writers {
			w.close()
		}
	}()

	for {
		group, err := recordio.ReadGroup(dec)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return fmt.Errorf("read duplicates group: %w", err)
		}

		for i := 1; i < len(group.Group); i++ {
			item := group.Group[i]
			w, ok := writers[item.PathHash]
			if !ok {
				w, err = newZstdFilterWriter(ctx.FilterFilePath(item.PathHash))
				if err != nil {
					return err
				}
				writers[item.PathHash] = w
			}
			if err := w.write(item.ContentHash); err != nil {
				return err
			}
		}
	}

	for ph, w := range writers {
		if err := w.close(); err != nil {
			return fmt.Errorf("close filter file for path hash %d: %w", ph, err)
		}
	}
	writers = nil

	return nil
}

// zstdFilterWriter owns one filter file's create-write-close lifecycle.
type zstdFilterWriter struct {
	file *os.File
	enc  interface {
		io.Writer
		Close() error
	}
}

func newZstdFilterWriter(path string) (*zstdFilterWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create filter file %s: %w", path, err)
	}
	enc, err := recordio.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &zstdFilterWriter{file: f, enc: enc}, nil
}

func (w *zstdFilterWriter) write(ch types.ContentHash) error {
	return recordio.WriteFilterHash(w.enc, ch)
}

func (w *zstdFilterWriter) close() error {
	if w.file == nil {
		return nil
	}
	err := w.enc.Close()
	cerr := w.file.Close()
	w.file = nil
	if err != nil {
		return err
	}
	return cerr
}
