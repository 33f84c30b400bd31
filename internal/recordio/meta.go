package recordio

import "io"

// Meta mirrors the sidecar {files, column_name, file_prefix} that
// accompanies every run file.
type Meta struct {
	Files      []string
	ColumnName string
	FilePrefix string
}

// WriteMeta serializes a Meta as: uint32 file count, each file as a
// length-prefixed string, then column_name and file_prefix as
// length-prefixed strings.
func WriteMeta(w io.Writer, m Meta) error {
	if err := writeUint32(w, uint32(len(m.Files))); err != nil {
		return err
	}
	for _, f := range m.Files {
		if err := writeString(w, f); err != nil {
			return err
		}
	}
	if err := writeString(w, m.ColumnName); err != nil {
		return err
	}
	return writeString(w, m.FilePrefix)
}

// ReadMeta deserializes a Meta written by WriteMeta.
func ReadMeta(r io.Reader) (Meta, error) {
	n, err := readUint32(r)
	if err != nil {
		return Meta{}, err
	}
	files := make([]string, n)
	for i := range files {
		files[i], err = readString(r)
		if err != nil {
			return Meta{}, err
		}
	}
	column, err := readString(r)
	if err != nil {
		return Meta{}, err
	}
	prefix, err := readString(r)
	if err != nil {
		return Meta{}, err
	}
	return Meta{Files: files, ColumnName: column, FilePrefix: prefix}, nil
}
