// Package resume implements the meta-file sweep that makes the first
// pipeline stage restartable: on every run it inspects the run files
// already spilled into the raw LSH buckets directory, discards anything
// that can no longer be trusted, and reports which input files have
// already been converted to bucket rows.
package resume

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ivoronin/dedup/internal/dedlog"
	"github.com/ivoronin/dedup/internal/recordio"
)

// State is the result of sweeping a raw-buckets directory: which input
// files are already covered by a valid run file and therefore should be
// skipped by the signer stage.
type State struct {
	ProcessedInputs map[string]struct{}
}

// Sweep scans folder for .lsh_meta/.lsh_rows pairs produced by a previous,
// possibly interrupted, run.
//
// A meta file whose recorded column name disagrees with columnName is
// stale (its run file was built for a different column) and both files
// are deleted. A .lsh_rows file with no surviving meta file is an orphan
// from a run that crashed between writing the rows file and its meta
// sidecar, and is deleted too. Every input file named in a surviving meta
// file is reported as already processed.
func Sweep(folder, columnName string, logger *dedlog.Logger) (*State, error) {
	if err := os.MkdirAll(folder, 0o755); err != nil {
		return nil, fmt.Errorf("create raw buckets dir: %w", err)
	}

	entries, err := os.ReadDir(folder)
	if err != nil {
		return nil, fmt.Errorf("read raw buckets dir: %w", err)
	}

	state := &State{ProcessedInputs: make(map[string]struct{})}
	knownRunFiles := make(map[string]struct{})

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lsh_meta" {
			continue
		}
		path := filepath.Join(folder, entry.Name())

		meta, err := readMeta(path)
		if err != nil {
			return nil, fmt.Errorf("read meta file %s: %w", path, err)
		}

		if meta.ColumnName != columnName {
			logger.Warn("meta file %s has column %q, want %q, discarding stale run", path, meta.ColumnName, columnName)
			if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
				return nil, err
			}
			runFile := filepath.Join(folder, meta.FilePrefix+".lsh_rows")
			if err := os.Remove(runFile); err != nil && !os.IsNotExist(err) {
				return nil, err
			}
			continue
		}

		for _, f := range meta.Files {
			state.ProcessedInputs[f] = struct{}{}
		}
		knownRunFiles[meta.FilePrefix+".lsh_rows"] = struct{}{}
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lsh_rows" {
			continue
		}
		if _, ok := knownRunFiles[entry.Name()]; !ok {
			logger.Warn("orphaned run file %s has no surviving meta, removing", entry.Name())
			if err := os.Remove(filepath.Join(folder, entry.Name())); err != nil && !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	return state, nil
}

func readMeta(path string) (recordio.Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return recordio.Meta{}, err
	}
	defer f.Close()

	dec, err := recordio.NewReader(f)
	if err != nil {
		return recordio.Meta{}, err
	}
	defer dec.Close()

	meta, err := recordio.ReadMeta(dec)
	if err != nil && !errors.Is(err, io.EOF) {
		return recordio.Meta{}, err
	}
	return meta, nil
}
