// Package minhash implements the deterministic token-level MinHash
// signature scheme: a fixed permutation family applied to word-tokenized,
// lowercased document text.
package minhash

import (
	"math"

	"github.com/spaolacci/murmur3"
)

// Signature is an ordered sequence of exactly NumPerm uint32 minima.
type Signature [NumPerm]uint32

// Band returns the contiguous slice of signature values
// [start, start+length), used by the LSH projector to build a band's byte
// image without copying.
func (s *Signature) Band(start, length int) []uint32 {
	return s[start : start+length]
}

// builder accumulates the running per-slot minima for one document.
type builder struct {
	perms *permutations
	sig   Signature
}

func newBuilder() *builder {
	b := &builder{perms: loadPermutations()}
	for i := range b.sig {
		b.sig[i] = math.MaxUint32
	}
	return b
}

// update folds one token into the running signature: for each permutation
// slot i, t = wrapping(A[i]*h(tok)) + B[i], then sig[i] = min(sig[i], t).
func (b *builder) update(tok string) {
	h := murmur3.Sum32([]byte(tok))
	for i := range b.sig {
		t := b.perms.a[i]*h + b.perms.b[i] // wraps on overflow, as uint32 arithmetic does in Go
		if t < b.sig[i] {
			b.sig[i] = t
		}
	}
}

func (b *builder) build() Signature {
	return b.sig
}

// Sign computes the MinHash signature of text: lowercase, tokenize, and
// fold every token into the running per-slot minima. A row with no tokens
// (e.g. empty text) yields a signature whose every slot is math.MaxUint32.
func Sign(text string) Signature {
	b := newBuilder()
	for _, tok := range tokenize(text) {
		b.update(tok)
	}
	return b.build()
}
