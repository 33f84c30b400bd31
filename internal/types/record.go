package types

// PathHash is a 16-bit fingerprint of a canonicalized absolute input path.
// Collisions are expected and tolerated; it is used only as a compact join
// key back to the set of paths that produced it.
type PathHash = uint16

// ContentHash is a 64-bit hash of the exact row text. Equal ContentHash
// implies equal text for filtering purposes; collisions are accepted as
// acceptable false-positive drops.
type ContentHash = uint64

// BucketRow is the on-disk unit produced by the Signer and consumed by the
// Merger and Grouper: (bucket_index, bucket_hash, path_hash, content_hash).
// Order is lexicographic on those four fields in that order, which is also
// the on-disk sort order within a run file and across the merged stream.
type BucketRow struct {
	BucketIndex uint8
	BucketHash  uint64
	PathHash    PathHash
	ContentHash ContentHash
}

// Less reports whether r sorts strictly before o under the record's natural
// lexicographic order.
func (r BucketRow) Less(o BucketRow) bool {
	if r.BucketIndex != o.BucketIndex {
		return r.BucketIndex < o.BucketIndex
	}
	if r.BucketHash != o.BucketHash {
		return r.BucketHash < o.BucketHash
	}
	if r.PathHash != o.PathHash {
		return r.PathHash < o.PathHash
	}
	return r.ContentHash < o.ContentHash
}

// Compare returns -1, 0, or 1 as r is less than, equal to, or greater than o.
func (r BucketRow) Compare(o BucketRow) int {
	switch {
	case r.Less(o):
		return -1
	case o.Less(r):
		return 1
	default:
		return 0
	}
}

// GroupItem is one document's membership in a duplicate group.
type GroupItem struct {
	PathHash    PathHash
	ContentHash ContentHash
}

// DuplicatesGroup is a maximal run of records sharing the same
// (bucket_index, bucket_hash), sorted by ContentHash ascending. Item 0 is
// the survivor; all later items are dropped from the output.
type DuplicatesGroup struct {
	Group []GroupItem
}
