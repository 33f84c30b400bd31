package pipeline

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/ivoronin/dedup/internal/columnar"
	"github.com/ivoronin/dedup/internal/dedlog"
	"github.com/ivoronin/dedup/internal/hashing"
	"github.com/ivoronin/dedup/internal/lsh"
	"github.com/ivoronin/dedup/internal/minhash"
	"github.com/ivoronin/dedup/internal/pathcontext"
	"github.com/ivoronin/dedup/internal/progress"
	"github.com/ivoronin/dedup/internal/types"
)

// signedStats is a trivial fmt.Stringer for the signer stage's final
// progress-bar message.
type signedStats int

func (s signedStats) String() string {
	return fmt.Sprintf("signed %d files into lsh bucket rows", int(s))
}

// runSigner converts every input file not already covered by a resumed run
// into LSH bucket rows, spread across nWorkers goroutines, each owning its
// own bounded-memory lsh.Writer.
func runSigner(ctx *pathcontext.Context, column string, spillThreshold uint64, nWorkers int, skip map[string]struct{}, showProgress bool, logger *dedlog.Logger) error {
	var files []string
	for _, f := range ctx.InputFiles() {
		if _, done := skip[f]; done {
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		logger.Info("all input files already converted to lsh bucket rows, nothing to sign")
		return nil
	}

	files = slices.Clone(files)
	rand.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })

	bar := progress.New(showProgress, int64(len(files)))
	var processed atomic.Uint64

	perWorker := ceilDiv(len(files), max(nWorkers, 1))
	nChunks := ceilDiv(len(files), perWorker)

	var wg sync.WaitGroup
	errCh := make(chan error, nChunks)
	for start := 0; start < len(files); start += perWorker {
		end := min(len(files), start+perWorker)
		worker := files[start:end]

		wg.Add(1)
		go func(worker []string) {
			defer wg.Done()
			if err := signFiles(worker, column, ctx.RawLSHBucketsDir(), spillThreshold, bar, &processed, logger); err != nil {
				errCh <- err
			}
		}(worker)
	}
	wg.Wait()
	close(errCh)
	bar.Finish(signedStats(len(files)))

	for err := range errCh {
		if err != nil {
			return err
		}
	}
	return nil
}

// signFiles owns one lsh.Writer for the lifetime of the worker, matching
// the reference implementation's per-worker writer (one writer, many
// files, a single final flush).
func signFiles(files []string, column, outputFolder string, spillThreshold uint64, bar *progress.Bar, processed *atomic.Uint64, logger *dedlog.Logger) error {
	writer := lsh.NewWriter(outputFolder, spillThreshold)

	for _, path := range files {
		logger.Debug("signing %s", path)
		rows, err := fileToBucketRows(path, column)
		if err != nil {
			return fmt.Errorf("sign %s: %w", path, err)
		}
		if err := writer.WriteRows(path, column, rows); err != nil {
			return fmt.Errorf("write bucket rows for %s: %w", path, err)
		}
		bar.Set(processed.Add(1))
	}

	return writer.Flush()
}

func fileToBucketRows(path, column string) ([]types.BucketRow, error) {
	ph := hashing.HashPath(path)

	reader, err := columnar.NewReader(path, column)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var rows []types.BucketRow
	for {
		hasMore, err := reader.HasDataLeft()
		if err != nil {
			return nil, err
		}
		if !hasMore {
			break
		}

		text, err := reader.Next()
		if err != nil {
			return nil, err
		}

		contentHash := types.ContentHash(hashing.Hash64String(text))
		sig := minhash.Sign(text)
		rows = append(rows, lsh.BucketRecords(&sig, ph, contentHash)...)
	}
	return rows, nil
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
