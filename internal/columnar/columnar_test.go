package columnar

import (
	"io"
	"path/filepath"
	"testing"
)

func TestWriterReaderRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet.zst")

	w, err := NewWriter(path, "content")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	want := []string{"first row", "second row", "third row"}
	for _, s := range want {
		if err := w.Write(s); err != nil {
			t.Fatalf("Write(%q): %v", s, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(path, "content")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	var got []string
	for {
		has, err := r.HasDataLeft()
		if err != nil {
			t.Fatalf("HasDataLeft: %v", err)
		}
		if !has {
			break
		}
		s, err := r.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, s)
	}

	if len(got) != len(want) {
		t.Fatalf("got %d rows, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("row %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReaderUnknownColumnErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet.zst")

	w, err := NewWriter(path, "content")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Write("row"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := NewReader(path, "nonexistent"); err == nil {
		t.Fatalf("expected error opening reader on unknown column")
	}
}

func TestReaderEmptyFileHasNoDataLeft(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.parquet.zst")

	w, err := NewWriter(path, "content")
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r, err := NewReader(path, "content")
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer r.Close()

	has, err := r.HasDataLeft()
	if err != nil {
		t.Fatalf("HasDataLeft: %v", err)
	}
	if has {
		t.Errorf("expected no data left in empty file")
	}
	if _, err := r.Next(); err != io.EOF {
		t.Errorf("Next() on empty file error = %v, want io.EOF", err)
	}
}
