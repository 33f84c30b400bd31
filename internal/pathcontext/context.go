// Package pathcontext implements the input scanner and path service: it
// enumerates input files under a root by a glob pattern, canonicalizes
// their paths, builds the PathHash reverse lookup used by the Diff
// command, and exposes the deterministic filesystem layout of the
// working directory.
package pathcontext

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/ivoronin/dedup/internal/hashing"
	"github.com/ivoronin/dedup/internal/types"
)

// Context is the shared, read-only-after-construction state every pipeline
// stage consults: the canonicalized input root, the ordered list of inputs,
// the PathHash reverse lookup, and the deterministic working-directory
// layout. It has value semantics: a Context is cheap to copy (a handful of
// strings plus a small map) so each worker can own an independent copy with
// no synchronization.
type Context struct {
	inputRoot string
	tmpDir    string

	inputFiles   []string
	hashToInputs map[types.PathHash][]int
}

// New scans inputRoot for files matching pattern, canonicalizes them, and
// prepares the working directory layout under tmpDir (creating its
// filters/ subdirectory).
func New(inputRoot, pattern, tmpDir string) (*Context, error) {
	absRoot, err := filepath.Abs(inputRoot)
	if err != nil {
		return nil, fmt.Errorf("resolve input root: %w", err)
	}
	canonRoot := Canonicalize(absRoot)

	var matches []string
	err = filepath.WalkDir(canonRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(canonRoot, path)
		if err != nil {
			return err
		}
		ok, err := doublestar.Match(pattern, filepath.ToSlash(rel))
		if err != nil {
			return fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}
		if ok {
			matches = append(matches, Canonicalize(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan input root %s: %w", canonRoot, err)
	}
	sort.Strings(matches)

	absTmp, err := filepath.Abs(tmpDir)
	if err != nil {
		return nil, fmt.Errorf("resolve tmp dir: %w", err)
	}
	canonTmp := Canonicalize(absTmp)

	c := &Context{
		inputRoot:    canonRoot,
		tmpDir:       canonTmp,
		inputFiles:   matches,
		hashToInputs: make(map[types.PathHash][]int, len(matches)),
	}
	for i, path := range matches {
		ph := hashing.HashPath(path)
		c.hashToInputs[ph] = append(c.hashToInputs[ph], i)
	}

	if err := os.MkdirAll(c.FiltersDir(), 0o755); err != nil {
		return nil, fmt.Errorf("create filters dir: %w", err)
	}

	return c, nil
}

// Canonicalize resolves "." and ".." components and redundant separators in
// an absolute path without following symlinks, matching the reference
// implementation's component-by-component canonicalization.
func Canonicalize(path string) string {
	return filepath.Clean(path)
}

// InputRoot returns the canonicalized input root.
func (c *Context) InputRoot() string { return c.inputRoot }

// InputFiles returns the canonicalized, sorted list of matched input paths.
func (c *Context) InputFiles() []string { return c.inputFiles }

// HashToInputFiles returns every input path whose PathHash equals ph. Two
// different paths may collide on a 16-bit hash; all such paths are
// returned.
func (c *Context) HashToInputFiles(ph types.PathHash) []string {
	indices := c.hashToInputs[ph]
	if len(indices) == 0 {
		return nil
	}
	files := make([]string, len(indices))
	for i, idx := range indices {
		files[i] = c.inputFiles[idx]
	}
	return files
}

// RawLSHBucketsDir is the working-directory path run files and meta files
// are spilled into.
func (c *Context) RawLSHBucketsDir() string {
	return Canonicalize(filepath.Join(c.tmpDir, "raw_lsh_buckets"))
}

// DuplicatesGroupsPath is the working-directory path of the duplicates
// groups file.
func (c *Context) DuplicatesGroupsPath() string {
	return Canonicalize(filepath.Join(c.tmpDir, "duplicates.groups"))
}

// FiltersDir is the working-directory path filter files live under.
func (c *Context) FiltersDir() string {
	return Canonicalize(filepath.Join(c.tmpDir, "filters"))
}

// FilterFilePath is the deterministic filesystem path of the filter file
// for a given PathHash.
func (c *Context) FilterFilePath(ph types.PathHash) string {
	return Canonicalize(filepath.Join(c.FiltersDir(), fmt.Sprintf("%d.filter", ph)))
}
