// Package sampling implements the sampling of random bytes and of uniform
// floating point values from a PRNG.
package sampling

import (
	"encoding/binary"
)

const bufferSize = 1024

// UniformSampler wraps a PRNG and draws float64 values uniformly
// distributed in a given range. It buffers the bytes read from the PRNG.
// A UniformSampler is not safe for concurrent use.
type UniformSampler struct {
	prng   PRNG
	buffer []byte
	ptr    int
}

// NewUniformSampler creates a new instance of UniformSampler from a PRNG.
func NewUniformSampler(prng PRNG) (u *UniformSampler) {
	u = new(UniformSampler)
	u.prng = prng
	u.buffer = make([]byte, bufferSize)
	u.ptr = bufferSize
	return
}

// Uint64 returns a uniformly random uint64.
func (u *UniformSampler) Uint64() uint64 {
	// Refills the buffer if it runs empty
	if u.ptr == len(u.buffer) {
		if _, err := u.prng.Read(u.buffer); err != nil {
			// Sanity check, this error should not happen.
			panic(err)
		}
		u.ptr = 0
	}

	r := binary.LittleEndian.Uint64(u.buffer[u.ptr : u.ptr+8])
	u.ptr += 8
	return r
}

// Float64 returns a uniformly random float64 in [0, 1).
// The value uses the 53 most significant bits of a random uint64,
// such that every returned value is a multiple of 2^-53.
func (u *UniformSampler) Float64() float64 {
	return float64(u.Uint64()>>11) * 0x1p-53
}

// Float64Range returns a uniformly random float64 in [min, max].
// The bound max is reached only up to rounding.
func (u *UniformSampler) Float64Range(min, max float64) float64 {
	f := u.Float64()
	if r := min + f*(max-min); r <= max {
		return r
	}
	return max
}
