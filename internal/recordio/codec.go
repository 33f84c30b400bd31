// Package recordio provides the zstd-framed, length-prefixed record codecs
// used for every on-disk artifact the pipeline produces: run files, meta
// sidecars, the duplicates-groups file, and per-path filter files. A fresh
// implementation is free to choose any stable framing as long as it is
// documented; this one uses plain little-endian length-prefixed fields
// rather than a Rust implementation's `speedy` derive macros, since there
// is no requirement here to read existing Rust-produced files.
package recordio

import (
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
)

// NewWriter wraps w in a zstd encoder at a moderate compression level, the
// same level the columnar writer uses, applied here to every framed
// artifact.
func NewWriter(w io.Writer) (*zstd.Encoder, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}

// Decoder is the zstd stream decoder returned by NewReader.
type Decoder = zstd.Decoder

// NewReader wraps r in a zstd decoder.
func NewReader(r io.Reader) (*Decoder, error) {
	return zstd.NewReader(r)
}

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

func writeUint16(w io.Writer, v uint16) error {
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint16(r io.Reader) (uint16, error) {
	var buf [2]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf[:]), nil
}

// writeString writes a length-prefixed UTF-8 string: a uint32 byte length
// followed by the raw bytes.
func writeString(w io.Writer, s string) error {
	if err := writeUint32(w, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	n, err := readUint32(r)
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}
