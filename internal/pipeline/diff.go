package pipeline

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ivoronin/dedup/internal/columnar"
	"github.com/ivoronin/dedup/internal/diffprint"
	"github.com/ivoronin/dedup/internal/hashing"
	"github.com/ivoronin/dedup/internal/pathcontext"
	"github.com/ivoronin/dedup/internal/recordio"
	"github.com/ivoronin/dedup/internal/types"
)

// Diff prints a colored line diff for up to limit duplicate groups recorded
// in ctx's duplicates-groups file, diffing each group's first two members.
func Diff(ctx *pathcontext.Context, column string, limit int) error {
	groups, err := readGroups(ctx.DuplicatesGroupsPath(), limit)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}

	content, err := loadGroupContent(ctx, column, groups)
	if err != nil {
		return err
	}

	for _, group := range groups {
		if len(group.Group) < 2 {
			continue
		}
		old, ok1 := content[group.Group[0].ContentHash]
		new, ok2 := content[group.Group[1].ContentHash]
		if !ok1 || !ok2 {
			continue
		}
		diffprint.Print(old, new)
	}
	return nil
}

func readGroups(path string, limit int) ([]types.DuplicatesGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open duplicates groups file: %w", err)
	}
	defer f.Close()

	dec, err := recordio.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var groups []types.DuplicatesGroup
	for i := 0; i < limit; i++ {
		g, err := recordio.ReadGroup(dec)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, fmt.Errorf("read duplicates group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, nil
}

// loadGroupContent reads every file that could contribute a member of
// groups and returns their rows keyed by content hash, so each group's
// members can be resolved back to text without re-reading files per group.
func loadGroupContent(ctx *pathcontext.Context, column string, groups []types.DuplicatesGroup) (map[types.ContentHash]string, error) {
	wantedHashes := make(map[types.ContentHash]struct{})
	files := make(map[string]struct{})
	for _, group := range groups {
		for _, item := range group.Group {
			wantedHashes[item.ContentHash] = struct{}{}
			for _, f := range ctx.HashToInputFiles(item.PathHash) {
				files[f] = struct{}{}
			}
		}
	}

	content := make(map[types.ContentHash]string, len(wantedHashes))
	for file := range files {
		if err := collectColumn(file, column, wantedHashes, content); err != nil {
			return nil, err
		}
	}
	return content, nil
}

func collectColumn(path, column string, wantedHashes map[types.ContentHash]struct{}, out map[types.ContentHash]string) error {
	reader, err := columnar.NewReader(path, column)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		hasMore, err := reader.HasDataLeft()
		if err != nil {
			return err
		}
		if !hasMore {
			break
		}
		text, err := reader.Next()
		if err != nil {
			return err
		}
		ch := types.ContentHash(hashing.Hash64String(text))
		if _, wanted := wantedHashes[ch]; wanted {
			out[ch] = text
		}
	}
	return nil
}
