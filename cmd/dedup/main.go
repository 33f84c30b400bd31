package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	os.Exit(run())
}

func run() int {
	root := &cobra.Command{
		Use:     "dedup",
		Short:   "Find and remove near-duplicate text rows from columnar files",
		Version: version + " (" + commit + ")",
	}

	root.AddCommand(newDeduplicateCmd())
	root.AddCommand(newDiffCmd())

	if err := root.Execute(); err != nil {
		return 1
	}
	return 0
}
