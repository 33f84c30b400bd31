// Package pipeline wires the Signer, Merger, Grouper, Filter Builder, and
// Applier stages into the two end-user operations the CLI exposes:
// Deduplicate and Diff.
package pipeline

import (
	"errors"
	"fmt"
	"os"

	"github.com/ivoronin/dedup/internal/applier"
	"github.com/ivoronin/dedup/internal/dedlog"
	"github.com/ivoronin/dedup/internal/filterbuilder"
	"github.com/ivoronin/dedup/internal/grouper"
	"github.com/ivoronin/dedup/internal/pathcontext"
	"github.com/ivoronin/dedup/internal/resume"
)

// DeduplicateOptions configures one Deduplicate run.
type DeduplicateOptions struct {
	Column              string
	NWorkers            int
	LSHBucketsSizeLimit uint64
	ShowProgress        bool
	Verbose             bool
}

// Deduplicate runs the full pipeline: build LSH bucket rows from every
// input file (unless a previous run already produced a duplicates-groups
// file), find duplicate groups, build per-path filters, and apply those
// filters while copying every input file into outDir.
func Deduplicate(ctx *pathcontext.Context, outDir string, opts DeduplicateOptions) error {
	logger, err := dedlog.New(opts.Verbose)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Sync()

	groupsPath := ctx.DuplicatesGroupsPath()
	if _, statErr := os.Stat(groupsPath); errors.Is(statErr, os.ErrNotExist) {
		logger.Info("building lsh bucket rows from %s, %d files", ctx.InputRoot(), len(ctx.InputFiles()))

		state, err := resume.Sweep(ctx.RawLSHBucketsDir(), opts.Column, logger)
		if err != nil {
			return fmt.Errorf("sweep raw buckets directory: %w", err)
		}

		if err := runSigner(ctx, opts.Column, opts.LSHBucketsSizeLimit, opts.NWorkers, state.ProcessedInputs, opts.ShowProgress, logger); err != nil {
			return err
		}

		logger.Info("finding duplicate groups")
		if err := grouper.Run(ctx.RawLSHBucketsDir(), groupsPath); err != nil {
			return fmt.Errorf("find duplicates: %w", err)
		}
	} else if statErr != nil {
		return statErr
	} else {
		logger.Info("found existing duplicates groups file, skipping lsh indexing and grouping")
	}

	logger.Info("building filters")
	if err := filterbuilder.Run(ctx, groupsPath); err != nil {
		return fmt.Errorf("build filters: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	logger.Info("applying filters")
	stats, err := applier.Run(ctx, opts.Column, outDir, opts.NWorkers, opts.ShowProgress)
	if err != nil {
		return fmt.Errorf("apply filters: %w", err)
	}
	logger.Info("%s", stats.String())

	return nil
}
