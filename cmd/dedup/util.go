package main

import (
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
)

// parseSize parses a human-readable size string into bytes.
// Supports formats: "100", "1K", "1MB", "1GiB", etc.
func parseSize(s string) (uint64, error) {
	return humanize.ParseBytes(s)
}

// validateGlobPattern checks that pattern is a valid doublestar glob,
// the same matcher pathcontext.New uses to enumerate input files.
func validateGlobPattern(pattern string) error {
	if _, err := doublestar.Match(pattern, ""); err != nil {
		return fmt.Errorf("pattern %q: %w", pattern, err)
	}
	return nil
}
