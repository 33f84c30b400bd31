// Package lsh implements band-wise Locality-Sensitive Hashing over MinHash
// signatures, plus the external-sort machinery (writer, reader, and k-way
// merger) that turns per-file bucket records into a single globally
// ordered stream.
package lsh

import (
	"github.com/ivoronin/dedup/internal/hashing"
	"github.com/ivoronin/dedup/internal/minhash"
	"github.com/ivoronin/dedup/internal/types"
)

// Parameters chosen to target Jaccard similarity ~0.8 under band-AND/row-OR
// LSH semantics. They are kept explicit and configurable even though the
// current system only ever constructs them at these values.
const (
	// Range is the number of signature values per band ("r" in the
	// glossary's band/row terminology).
	Range = 15
	// Buckets is the number of bands a signature is partitioned into
	// ("b" in the glossary's band/row terminology).
	Buckets = 17
	// last is the number of signature slots actually consumed
	// (Range*Buckets); the remaining NumPerm-last slots are unused.
	last = Range * Buckets
)

// BucketRecords projects a MinHash signature into exactly Buckets
// LshBucketRow records, stamping each with the document's path hash and
// content hash.
func BucketRecords(sig *minhash.Signature, pathHash types.PathHash, contentHash types.ContentHash) []types.BucketRow {
	rows := make([]types.BucketRow, Buckets)
	for i := 0; i < Buckets; i++ {
		start := i * Range
		band := sig.Band(start, Range)
		rows[i] = types.BucketRow{
			BucketIndex: uint8(i),
			BucketHash:  hashing.HashBand(band),
			PathHash:    pathHash,
			ContentHash: contentHash,
		}
	}
	return rows
}
