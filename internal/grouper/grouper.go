// Package grouper consumes the globally merged bucket-row stream and emits
// duplicate groups: runs of records sharing the same (bucket index, bucket
// hash) pair whose length exceeds one.
package grouper

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ivoronin/dedup/internal/lsh"
	"github.com/ivoronin/dedup/internal/recordio"
	"github.com/ivoronin/dedup/internal/types"
)

// Run scans the merged stream from folder and writes every group with more
// than one member to outputFile, each sorted by ContentHash so the filter
// builder's `rows[1:]` survivor-drop rule is deterministic.
func Run(folder, outputFile string) error {
	merger, err := lsh.NewMerger(folder)
	if err != nil {
		return fmt.Errorf("open merger: %w", err)
	}
	defer merger.Close()

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("create duplicates groups file: %w", err)
	}
	defer out.Close()

	enc, err := recordio.NewWriter(out)
	if err != nil {
		return err
	}

	var current []types.BucketRow
	flush := func() error {
		if len(current) <= 1 {
			current = current[:0]
			return nil
		}
		slices.SortFunc(current, func(a, b types.BucketRow) int {
			switch {
			case a.ContentHash < b.ContentHash:
				return -1
			case a.ContentHash > b.ContentHash:
				return 1
			default:
				return 0
			}
		})
		group := types.DuplicatesGroup{Group: make([]types.GroupItem, len(current))}
		for i, row := range current {
			group.Group[i] = types.GroupItem{PathHash: row.PathHash, ContentHash: row.ContentHash}
		}
		if err := recordio.WriteGroup(enc, group); err != nil {
			return fmt.Errorf("write duplicates group: %w", err)
		}
		current = current[:0]
		return nil
	}

	for merger.HasDataLeft() {
		row, err := merger.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read merged stream: %w", err)
		}

		if len(current) == 0 {
			current = append(current, row)
			continue
		}

		if current[0].BucketIndex == row.BucketIndex && current[0].BucketHash == row.BucketHash {
			current = append(current, row)
			continue
		}

		if err := flush(); err != nil {
			return err
		}
		current = append(current, row)
	}
	if err := flush(); err != nil {
		return err
	}

	return enc.Close()
}
