package ranking

import (
	"math/rand/v2"
)

// RandomSource supplies the bounded variation used by the scoring functions.
type RandomSource interface {
	// IntRange returns an integer in [lo, hi], both ends inclusive.
	IntRange(lo, hi int) int
}

// systemSource draws from the process-wide generator and is safe for concurrent use.
type systemSource struct{}

// NewSystemSource returns a RandomSource backed by the global math/rand/v2 generator.
func NewSystemSource() RandomSource {
	return systemSource{}
}

func (systemSource) IntRange(lo, hi int) int {
	lo, hi = ordered(lo, hi)
	return lo + rand.IntN(hi-lo+1)
}

// seededSource is a reproducible PCG stream. It is not safe for concurrent use.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a reproducible RandomSource. Two sources built from the same
// seed yield the same sequence.
func NewSeededSource(seed uint64) RandomSource {
	return &seededSource{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *seededSource) IntRange(lo, hi int) int {
	lo, hi = ordered(lo, hi)
	return lo + s.rng.IntN(hi-lo+1)
}

// MidpointSource always returns the middle of the range, so symmetric perturbations are zero.
type MidpointSource struct{}

// IntRange returns (lo+hi)/2.
func (MidpointSource) IntRange(lo, hi int) int {
	lo, hi = ordered(lo, hi)
	return lo + (hi-lo)/2
}

func ordered(lo, hi int) (int, int) {
	if hi < lo {
		return hi, lo
	}
	return lo, hi
}
