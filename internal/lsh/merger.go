package lsh

import (
	"container/heap"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ivoronin/dedup/internal/types"
)

// Merger performs a k-way merge over every .lsh_rows run file in a
// directory, yielding a single globally ordered stream of bucket records.
// It primes a min-heap with one record per open stream and then repeatedly
// pops the minimum, returns it, and refills from the same stream.
type Merger struct {
	readers []*Reader
	heap    mergeHeap
	prev    *types.BucketRow
}

// heapItem pairs a record with the index of the reader it came from, so the
// merger knows which stream to pull the next record from after a pop.
type heapItem struct {
	row       types.BucketRow
	readerIdx int
	seqNum    int
}

// mergeHeap is a min-heap ordered on BucketRow's natural order: pop the
// smallest record. Ties, which only occur between records equal in all four
// fields, are broken by seqNum: the position of the record's stream among
// the non-empty streams at priming time, not the order in which individual
// records entered the heap.
type mergeHeap []heapItem

func (h mergeHeap) Len() int { return len(h) }
func (h mergeHeap) Less(i, j int) bool {
	c := h[i].row.Compare(h[j].row)
	if c != 0 {
		return c < 0
	}
	return h[i].seqNum < h[j].seqNum
}
func (h mergeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *mergeHeap) Push(x any)   { *h = append(*h, x.(heapItem)) }
func (h *mergeHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// NewMerger scans folder for .lsh_rows files, opens every one, and primes
// the heap with one record per non-empty stream.
func NewMerger(folder string) (*Merger, error) {
	entries, err := filepath.Glob(filepath.Join(folder, "*.lsh_rows"))
	if err != nil {
		return nil, fmt.Errorf("scan run-file directory: %w", err)
	}

	m := &Merger{}
	seq := 0
	for _, path := range entries {
		if !strings.HasSuffix(path, ".lsh_rows") {
			continue
		}
		reader, err := NewReader(path)
		if err != nil {
			return nil, fmt.Errorf("open run file %s: %w", path, err)
		}
		idx := len(m.readers)
		m.readers = append(m.readers, reader)

		row, err := reader.Next()
		if err == io.EOF {
			continue
		}
		if err != nil {
			return nil, err
		}
		heap.Push(&m.heap, heapItem{row: row, readerIdx: idx, seqNum: seq})
		seq++
	}
	heap.Init(&m.heap)
	return m, nil
}

// HasDataLeft reports whether any record remains to be merged.
func (m *Merger) HasDataLeft() bool {
	return m.heap.Len() > 0
}

// Next pops the globally smallest remaining record, refills from the
// stream it came from, and enforces that the merged output is
// non-decreasing.
func (m *Merger) Next() (types.BucketRow, error) {
	top := heap.Pop(&m.heap).(heapItem)

	reader := m.readers[top.readerIdx]
	next, err := reader.Next()
	switch {
	case err == nil:
		heap.Push(&m.heap, heapItem{row: next, readerIdx: top.readerIdx, seqNum: top.seqNum})
	case err == io.EOF:
		// stream exhausted, nothing to push back
	default:
		return types.BucketRow{}, err
	}

	if m.prev != nil && top.row.Less(*m.prev) {
		return types.BucketRow{}, fmt.Errorf("merged stream out of order: %+v after %+v", top.row, *m.prev)
	}
	m.prev = &top.row
	return top.row, nil
}

// Close releases every underlying run-file reader.
func (m *Merger) Close() error {
	var firstErr error
	for _, r := range m.readers {
		if err := r.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
