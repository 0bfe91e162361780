package sampling

import (
	"encoding/binary"

	"github.com/zeebo/blake3"
)

// SeedSize is the size in bytes of the seeds and of the derived stream keys.
const SeedSize = 32

const streamContext = "polyquad 2024 sampling stream key"

// NewSeed returns a fresh random seed of SeedSize bytes read from prng.
func NewSeed(prng PRNG) (seed []byte, err error) {
	seed = make([]byte, SeedSize)
	if _, err = prng.Read(seed); err != nil {
		return nil, err
	}
	return
}

// DeriveStreamKey derives the key of the stream identified by (run, worker)
// from a seed. Distinct (run, worker) pairs yield independent keys, so that
// the KeyedPRNG instantiated from them produce non-overlapping streams.
func DeriveStreamKey(seed []byte, run, worker int) (key []byte) {
	material := make([]byte, len(seed)+16)
	copy(material, seed)
	binary.LittleEndian.PutUint64(material[len(seed):], uint64(run))
	binary.LittleEndian.PutUint64(material[len(seed)+8:], uint64(worker))

	key = make([]byte, SeedSize)
	blake3.DeriveKey(streamContext, material, key)
	return
}

// NewStreamPRNG returns the KeyedPRNG of the stream identified by (run, worker).
func NewStreamPRNG(seed []byte, run, worker int) (*KeyedPRNG, error) {
	return NewKeyedPRNG(DeriveStreamKey(seed, run, worker))
}
