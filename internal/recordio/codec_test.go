package recordio

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ivoronin/dedup/internal/types"
)

func roundtripEncoder(t *testing.T, write func(w io.Writer) error) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	enc, err := NewWriter(&buf)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	if err := write(enc); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close encoder: %v", err)
	}
	return &buf
}

func TestBucketRowRoundtrip(t *testing.T) {
	row := types.BucketRow{BucketIndex: 7, BucketHash: 123456789, PathHash: 4242, ContentHash: 98765432109}

	buf := roundtripEncoder(t, func(w io.Writer) error {
		return WriteBucketRow(w, row)
	})

	dec, err := NewReader(buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer dec.Close()

	got, err := ReadBucketRow(dec)
	if err != nil {
		t.Fatalf("ReadBucketRow: %v", err)
	}
	if got != row {
		t.Errorf("ReadBucketRow() = %+v, want %+v", got, row)
	}

	if _, err := ReadBucketRow(dec); err != io.EOF {
		t.Errorf("second ReadBucketRow() error = %v, want io.EOF", err)
	}
}

func TestMetaRoundtrip(t *testing.T) {
	meta := Meta{Files: []string{"/a.parquet.zst", "/b.parquet.zst"}, ColumnName: "content", FilePrefix: "abc123"}

	buf := roundtripEncoder(t, func(w io.Writer) error {
		return WriteMeta(w, meta)
	})

	dec, err := NewReader(buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer dec.Close()

	got, err := ReadMeta(dec)
	if err != nil {
		t.Fatalf("ReadMeta: %v", err)
	}
	if got.ColumnName != meta.ColumnName || got.FilePrefix != meta.FilePrefix || len(got.Files) != len(meta.Files) {
		t.Errorf("ReadMeta() = %+v, want %+v", got, meta)
	}
	for i := range meta.Files {
		if got.Files[i] != meta.Files[i] {
			t.Errorf("Files[%d] = %q, want %q", i, got.Files[i], meta.Files[i])
		}
	}
}

func TestGroupRoundtrip(t *testing.T) {
	group := types.DuplicatesGroup{Group: []types.GroupItem{
		{PathHash: 1, ContentHash: 10},
		{PathHash: 2, ContentHash: 20},
		{PathHash: 3, ContentHash: 30},
	}}

	buf := roundtripEncoder(t, func(w io.Writer) error {
		return WriteGroup(w, group)
	})

	dec, err := NewReader(buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer dec.Close()

	got, err := ReadGroup(dec)
	if err != nil {
		t.Fatalf("ReadGroup: %v", err)
	}
	if len(got.Group) != len(group.Group) {
		t.Fatalf("ReadGroup() returned %d items, want %d", len(got.Group), len(group.Group))
	}
	for i := range group.Group {
		if got.Group[i] != group.Group[i] {
			t.Errorf("Group[%d] = %+v, want %+v", i, got.Group[i], group.Group[i])
		}
	}
}

func TestMultipleGroupsSequentialRead(t *testing.T) {
	groups := []types.DuplicatesGroup{
		{Group: []types.GroupItem{{PathHash: 1, ContentHash: 1}, {PathHash: 2, ContentHash: 2}}},
		{Group: []types.GroupItem{{PathHash: 3, ContentHash: 3}, {PathHash: 4, ContentHash: 4}}},
	}

	buf := roundtripEncoder(t, func(w io.Writer) error {
		for _, g := range groups {
			if err := WriteGroup(w, g); err != nil {
				return err
			}
		}
		return nil
	})

	dec, err := NewReader(buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer dec.Close()

	for i, want := range groups {
		got, err := ReadGroup(dec)
		if err != nil {
			t.Fatalf("ReadGroup() #%d: %v", i, err)
		}
		if len(got.Group) != len(want.Group) {
			t.Fatalf("group %d: got %d items, want %d", i, len(got.Group), len(want.Group))
		}
	}

	if _, err := ReadGroup(dec); !errors.Is(err, io.EOF) {
		t.Errorf("final ReadGroup() error = %v, want io.EOF", err)
	}
}

func TestFilterHashRoundtrip(t *testing.T) {
	hashes := []types.ContentHash{1, 2, 18446744073709551615}

	buf := roundtripEncoder(t, func(w io.Writer) error {
		for _, h := range hashes {
			if err := WriteFilterHash(w, h); err != nil {
				return err
			}
		}
		return nil
	})

	dec, err := NewReader(buf)
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	defer dec.Close()

	for i, want := range hashes {
		got, err := ReadFilterHash(dec)
		if err != nil {
			t.Fatalf("ReadFilterHash() #%d: %v", i, err)
		}
		if got != want {
			t.Errorf("ReadFilterHash() #%d = %d, want %d", i, got, want)
		}
	}
}
