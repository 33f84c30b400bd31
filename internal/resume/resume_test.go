package resume

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ivoronin/dedup/internal/dedlog"
	"github.com/ivoronin/dedup/internal/recordio"
)

func writeMetaFile(t *testing.T, path string, meta recordio.Meta) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	enc, err := recordio.NewWriter(f)
	if err != nil {
		t.Fatalf("recordio.NewWriter: %v", err)
	}
	if err := recordio.WriteMeta(enc, meta); err != nil {
		t.Fatalf("WriteMeta: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func newTestLogger(t *testing.T) *dedlog.Logger {
	t.Helper()
	logger, err := dedlog.New(false)
	if err != nil {
		t.Fatalf("dedlog.New: %v", err)
	}
	t.Cleanup(func() { _ = logger.Sync() })
	return logger
}

func TestSweepReportsProcessedInputsFromValidMeta(t *testing.T) {
	dir := t.TempDir()
	writeMetaFile(t, filepath.Join(dir, "p1.lsh_meta"), recordio.Meta{
		Files:      []string{"a.parquet.zst", "b.parquet.zst"},
		ColumnName: "content",
		FilePrefix: "p1",
	})
	if err := os.WriteFile(filepath.Join(dir, "p1.lsh_rows"), []byte{}, 0o644); err != nil {
		t.Fatalf("seed run file: %v", err)
	}

	state, err := Sweep(dir, "content", newTestLogger(t))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	for _, f := range []string{"a.parquet.zst", "b.parquet.zst"} {
		if _, ok := state.ProcessedInputs[f]; !ok {
			t.Errorf("expected %q to be reported as already processed", f)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "p1.lsh_rows")); err != nil {
		t.Errorf("valid run file should survive sweep: %v", err)
	}
}

func TestSweepDiscardsColumnMismatchedMeta(t *testing.T) {
	dir := t.TempDir()
	writeMetaFile(t, filepath.Join(dir, "p1.lsh_meta"), recordio.Meta{
		Files:      []string{"a.parquet.zst"},
		ColumnName: "title",
		FilePrefix: "p1",
	})
	if err := os.WriteFile(filepath.Join(dir, "p1.lsh_rows"), []byte{}, 0o644); err != nil {
		t.Fatalf("seed run file: %v", err)
	}

	state, err := Sweep(dir, "content", newTestLogger(t))
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if len(state.ProcessedInputs) != 0 {
		t.Errorf("expected no processed inputs from mismatched-column meta, got %v", state.ProcessedInputs)
	}
	if _, err := os.Stat(filepath.Join(dir, "p1.lsh_meta")); !os.IsNotExist(err) {
		t.Errorf("expected stale meta file to be removed")
	}
	if _, err := os.Stat(filepath.Join(dir, "p1.lsh_rows")); !os.IsNotExist(err) {
		t.Errorf("expected run file belonging to stale meta to be removed")
	}
}

func TestSweepRemovesOrphanedRunFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "orphan.lsh_rows"), []byte{}, 0o644); err != nil {
		t.Fatalf("seed orphan run file: %v", err)
	}

	if _, err := Sweep(dir, "content", newTestLogger(t)); err != nil {
		t.Fatalf("Sweep: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "orphan.lsh_rows")); !os.IsNotExist(err) {
		t.Errorf("expected orphaned run file with no meta to be removed")
	}
}

func TestSweepCreatesMissingFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "does", "not", "exist", "yet")

	if _, err := Sweep(dir, "content", newTestLogger(t)); err != nil {
		t.Fatalf("Sweep on missing folder: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("expected Sweep to create folder: %v", err)
	}
}
