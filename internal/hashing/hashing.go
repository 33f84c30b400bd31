// Package hashing provides the stable, non-cryptographic hash family shared
// by path hashing, content hashing, and LSH bucket hashing. A single
// family is used everywhere a 64-bit hash is needed so that two
// independent runs over the same bytes always agree.
package hashing

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/ivoronin/dedup/internal/types"
)

// Hash64 is the 64-bit stable hash used for content hashes and LSH bucket
// hashes. The reference implementation uses CityHash; cespare/xxhash/v2 is
// the Go-ecosystem counterpart used here, and is the family that must be
// preserved across runs for stable filter behavior.
func Hash64(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Hash64String is Hash64 for a string, avoiding a copy.
func Hash64String(s string) uint64 {
	return xxhash.Sum64String(s)
}

// HashPath folds a 32-bit hash of a canonicalized absolute path into a
// 16-bit PathHash: PH = (h>>16) XOR (h & 0xFFFF).
func HashPath(path string) types.PathHash {
	h := uint32(xxhash.Sum64String(path))
	return types.PathHash((h >> 16) ^ (h & 0xFFFF))
}

// HashBand hashes the raw 60-byte little-endian byte image of a 15-value
// u32 band of a MinHash signature.
func HashBand(band []uint32) uint64 {
	buf := make([]byte, len(band)*4)
	for i, v := range band {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	return xxhash.Sum64(buf)
}
