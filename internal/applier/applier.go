// Package applier rewrites every input file with its duplicate rows
// dropped, guided by the per-path filter files the filterbuilder package
// produces.
//
// # Concurrency Model
//
// Run partitions the (shuffled) input file list into n_workers contiguous
// slices and hands one slice to each of n_workers goroutines, along with its
// own copy of the path context. There is no shared mutable state between
// workers beyond the atomic counters in Stats and the progress bar, so no
// semaphore is needed here: one worker owns one file end to end.
package applier

import (
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/ivoronin/dedup/internal/columnar"
	"github.com/ivoronin/dedup/internal/hashing"
	"github.com/ivoronin/dedup/internal/pathcontext"
	"github.com/ivoronin/dedup/internal/progress"
	"github.com/ivoronin/dedup/internal/recordio"
	"github.com/ivoronin/dedup/internal/types"
)

// Stats reports the aggregate row counts of one Run, satisfying
// fmt.Stringer for live progress-bar rendering.
type Stats struct {
	TotalRows      atomic.Uint64
	FilteredRows   atomic.Uint64
	processedFiles atomic.Uint64
}

func (s *Stats) String() string {
	total := s.TotalRows.Load()
	filtered := s.FilteredRows.Load()
	return fmt.Sprintf("processed %s rows, filtered %s duplicates",
		humanize.Comma(int64(total)), humanize.Comma(int64(filtered)))
}

// Run applies every path's filter file (if any) while copying column into
// freshly written files under outDir, using nWorkers goroutines.
func Run(ctx *pathcontext.Context, column, outDir string, nWorkers int, showProgress bool) (*Stats, error) {
	files := slices.Clone(ctx.InputFiles())
	rand.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })

	stats := &Stats{}
	bar := progress.New(showProgress, int64(len(files)))
	bar.Describe(stats)

	perWorker := ceilDiv(len(files), max(nWorkers, 1))
	nChunks := ceilDiv(len(files), perWorker)

	var wg sync.WaitGroup
	errCh := make(chan error, nChunks)
	for start := 0; start < len(files); start += perWorker {
		end := min(len(files), start+perWorker)
		worker := files[start:end]

		wg.Add(1)
		go func(worker []string, ctx pathcontext.Context) {
			defer wg.Done()
			if err := applyToFiles(&ctx, worker, column, outDir, bar, stats); err != nil {
				errCh <- err
			}
		}(worker, *ctx)
	}
	wg.Wait()
	close(errCh)

	bar.Finish(stats)

	for err := range errCh {
		if err != nil {
			return stats, err
		}
	}
	return stats, nil
}

func applyToFiles(ctx *pathcontext.Context, files []string, column, outDir string, bar *progress.Bar, stats *Stats) error {
	for _, file := range files {
		if err := applyToFile(ctx, file, column, outDir, stats); err != nil {
			return fmt.Errorf("apply filter to %s: %w", file, err)
		}
		bar.Set(stats.processedFiles.Add(1))
		bar.Describe(stats)
	}
	return nil
}

func applyToFile(ctx *pathcontext.Context, file, column, outDir string, stats *Stats) error {
	ph := hashing.HashPath(file)
	filterPath := ctx.FilterFilePath(ph)

	filterSet, err := loadFilterSet(filterPath)
	if err != nil {
		return err
	}

	outPath := filepath.Join(outDir, fmt.Sprintf("%x.parquet.zst", md5.Sum([]byte(file))))

	reader, err := columnar.NewReader(file, column)
	if err != nil {
		return err
	}
	defer reader.Close()

	writer, err := columnar.NewWriter(outPath, column)
	if err != nil {
		return err
	}

	var total, filtered uint64
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
		total++

		if _, dup := filterSet[hashing.Hash64String(text)]; dup {
			filtered++
			continue
		}
		if err := writer.Write(text); err != nil {
			return err
		}
	}

	if err := writer.Close(); err != nil {
		return err
	}

	stats.TotalRows.Add(total)
	stats.FilteredRows.Add(filtered)
	return nil
}

func loadFilterSet(path string) (map[types.ContentHash]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open filter file %s: %w", path, err)
	}
	defer f.Close()

	dec, err := recordio.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	set := make(map[types.ContentHash]struct{})
	for {
		ch, err := recordio.ReadFilterHash(dec)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return nil, fmt.Errorf("read filter file %s: %w", path, err)
		}
		set[ch] = struct{}{}
	}
	return set, nil
}

// ceilDiv returns the ceiling of a/b, used to size worker chunks so that
// splitting a slices into chunks of this size never produces more than b
// chunks. Returns 0 when a is 0, since there is nothing to chunk.
func ceilDiv(a, b int) int {
	if a == 0 {
		return 0
	}
	return (a + b - 1) / b
}

