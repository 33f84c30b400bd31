package main

import (
	"fmt"
	"os"

	"github.com/ivoronin/dedup/internal/pathcontext"
	"github.com/ivoronin/dedup/internal/pipeline"
	"github.com/spf13/cobra"
)

// deduplicateOptions holds CLI flags for the deduplicate command.
type deduplicateOptions struct {
	input               string
	inputPattern        string
	tmp                 string
	out                 string
	nWorkers            int
	column              string
	clear               bool
	lshBucketsSizeLimit string
	noProgress          bool
	verbose             bool
}

// newDeduplicateCmd creates the deduplicate subcommand.
func newDeduplicateCmd() *cobra.Command {
	opts := &deduplicateOptions{
		inputPattern:        "*.parquet.zst",
		nWorkers:            1,
		column:              "content",
		lshBucketsSizeLimit: "1GiB",
	}

	cmd := &cobra.Command{
		Use:   "deduplicate",
		Short: "Find and drop near-duplicate rows from a tree of columnar files",
		Long: `Builds MinHash/LSH signatures for every row of the given column across
every input file, groups rows that collide in the same LSH bucket, and
writes a copy of each input file under --out with the losing rows of every
duplicate group removed.

A previous, possibly interrupted, run's intermediate state under --tmp is
reused automatically: if a duplicates-groups file already exists there, the
signing and grouping stages are skipped entirely.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDeduplicate(opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Root directory of input files")
	cmd.Flags().StringVar(&opts.inputPattern, "input-pattern", opts.inputPattern, "Glob pattern input files must match")
	cmd.Flags().StringVar(&opts.tmp, "tmp", "", "Working directory for intermediate state")
	cmd.Flags().StringVar(&opts.out, "out", "", "Output directory for deduplicated files")
	cmd.Flags().IntVar(&opts.nWorkers, "n-workers", opts.nWorkers, "Number of parallel workers")
	cmd.Flags().StringVar(&opts.column, "column", opts.column, "Name of the text column to deduplicate")
	cmd.Flags().BoolVar(&opts.clear, "clear", false, "Remove --out and --tmp before running")
	cmd.Flags().StringVar(&opts.lshBucketsSizeLimit, "lsh-buckets-size-limit", opts.lshBucketsSizeLimit, "In-memory buffer size before spilling a sorted run file, e.g. \"1GiB\"")
	cmd.Flags().BoolVar(&opts.noProgress, "no-progress", false, "Disable progress bars")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug-level logging")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("tmp")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runDeduplicate(opts *deduplicateOptions) error {
	if err := validateGlobPattern(opts.inputPattern); err != nil {
		return fmt.Errorf("--input-pattern: %w", err)
	}

	sizeLimit, err := parseSize(opts.lshBucketsSizeLimit)
	if err != nil {
		return fmt.Errorf("--lsh-buckets-size-limit: %w", err)
	}

	if opts.clear {
		if err := os.RemoveAll(opts.out); err != nil {
			return fmt.Errorf("clear --out: %w", err)
		}
		if err := os.RemoveAll(opts.tmp); err != nil {
			return fmt.Errorf("clear --tmp: %w", err)
		}
	}

	ctx, err := pathcontext.New(opts.input, opts.inputPattern, opts.tmp)
	if err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	return pipeline.Deduplicate(ctx, opts.out, pipeline.DeduplicateOptions{
		Column:              opts.column,
		NWorkers:            opts.nWorkers,
		LSHBucketsSizeLimit: sizeLimit,
		ShowProgress:        !opts.noProgress,
		Verbose:             opts.verbose,
	})
}
