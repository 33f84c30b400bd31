package main

import (
	"fmt"

	"github.com/ivoronin/dedup/internal/pathcontext"
	"github.com/ivoronin/dedup/internal/pipeline"
	"github.com/spf13/cobra"
)

// diffOptions holds CLI flags for the diff command.
type diffOptions struct {
	input        string
	inputPattern string
	tmp          string
	column       string
	limit        int
}

// newDiffCmd creates the diff subcommand.
func newDiffCmd() *cobra.Command {
	opts := &diffOptions{
		inputPattern: "*.parquet.zst",
		column:       "content",
		limit:        100,
	}

	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Show a colored line diff for previously found duplicate groups",
		Long: `Reads the duplicates-groups file a previous deduplicate run produced under
--tmp and prints a colored, line-oriented diff of the first two members of
up to --limit groups.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runDiff(opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "Root directory of input files")
	cmd.Flags().StringVar(&opts.inputPattern, "input-pattern", opts.inputPattern, "Glob pattern input files must match")
	cmd.Flags().StringVar(&opts.tmp, "tmp", "", "Working directory holding a previous run's duplicates-groups file")
	cmd.Flags().StringVar(&opts.column, "column", opts.column, "Name of the text column to diff")
	cmd.Flags().IntVar(&opts.limit, "limit", opts.limit, "Maximum number of duplicate groups to show")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("tmp")

	return cmd
}

func runDiff(opts *diffOptions) error {
	if err := validateGlobPattern(opts.inputPattern); err != nil {
		return fmt.Errorf("--input-pattern: %w", err)
	}

	ctx, err := pathcontext.New(opts.input, opts.inputPattern, opts.tmp)
	if err != nil {
		return fmt.Errorf("scan input: %w", err)
	}

	return pipeline.Diff(ctx, opts.column, opts.limit)
}
