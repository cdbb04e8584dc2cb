// Package random provides seeding helpers for per-instance random sources.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"
)

const goldenRatio64 = 0x9e3779b97f4a7c15

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return binary.LittleEndian.Uint64(b[:]), nil
}

// New returns a PCG-backed generator for seed. The same seed always yields
// the same sequence. Both PCG words are derived from seed so that adjacent
// seeds, as used for consecutive replicates, start far apart.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(Mix(seed), Mix(seed+goldenRatio64)))
}

// Mix is the SplitMix64 finalizer.
func Mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
