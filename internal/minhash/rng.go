package minhash

import (
	"encoding/binary"

	"golang.org/x/crypto/chacha20"
)

// chachaRNG is a deterministic source of uniform uint32 draws built on top
// of the ChaCha20 stream cipher, standing in for a reference
// implementation's `ChaCha8Rng::seed_from_u64(seed)`. golang.org/x/crypto
// only exposes ChaCha20 (20 rounds, not 8), which is an acceptable
// substitution here: nothing downstream depends on bit-identical output
// with that reference (see the permutation-family decision in
// DESIGN.md), only on the stream being a deterministic, reproducible
// function of the seed.
type chachaRNG struct {
	cipher *chacha20.Cipher
}

// newChachaRNG seeds a keystream from a 64-bit seed. The seed occupies the
// low 8 bytes of the cipher key; the remaining key bytes and the nonce are
// zero, which is sufficient for a process-local deterministic stream.
func newChachaRNG(seed uint64) *chachaRNG {
	var key [chacha20.KeySize]byte
	binary.LittleEndian.PutUint64(key[:8], seed)

	c, err := chacha20.NewUnauthenticatedCipher(key[:], make([]byte, chacha20.NonceSize))
	if err != nil {
		// Only fails on malformed key/nonce sizes, which are fixed-size
		// arrays here and therefore always valid.
		panic(err)
	}
	return &chachaRNG{cipher: c}
}

// nextUint32 draws the next 32-bit word from the keystream.
func (r *chachaRNG) nextUint32() uint32 {
	var buf [4]byte
	r.cipher.XORKeyStream(buf[:], buf[:])
	return binary.LittleEndian.Uint32(buf[:])
}

// uniform draws a uniform value in [lo, hi) using rejection sampling to
// avoid modulo bias, matching the open-upper-bound semantics required of
// A[i] ∈ [1, u32::MAX) and B[i] ∈ [0, u32::MAX).
func (r *chachaRNG) uniform(lo, hi uint32) uint32 {
	span := hi - lo
	limit := (^uint32(0) / span) * span
	for {
		v := r.nextUint32()
		if v < limit {
			return lo + v%span
		}
	}
}
