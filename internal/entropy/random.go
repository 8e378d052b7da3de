// Package entropy provides the single seeded random stream that drives every
// stochastic decision in a run. All subsystems draw from one Stream in a fixed
// order, so a run is fully reproducible from its seed.
package entropy

import (
	"math/rand"
)

// Stream is a deterministic random source seeded once per run.
// It is not safe for concurrent use; the engine owns it exclusively.
type Stream struct {
	rng *rand.Rand
}

// NewStream creates a stream seeded with the given value.
func NewStream(seed uint64) *Stream {
	return &Stream{rng: rand.New(rand.NewSource(int64(seed)))}
}

// Float returns a float64 in [0, 1).
func (s *Stream) Float() float64 {
	return s.rng.Float64()
}

// Chance returns true with probability p.
func (s *Stream) Chance(p float64) bool {
	if p <= 0 {
		return false
	}
	if p >= 1 {
		return true
	}
	return s.rng.Float64() < p
}

// Range returns a float64 uniformly drawn from [lo, hi).
func (s *Stream) Range(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

// IntRange returns an int uniformly drawn from [lo, hi] inclusive.
func (s *Stream) IntRange(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + s.rng.Intn(hi-lo+1)
}

// Intn returns an int in [0, n). n must be positive.
func (s *Stream) Intn(n int) int {
	return s.rng.Intn(n)
}

// Shuffle permutes a slice of n elements in place.
func (s *Stream) Shuffle(n int, swap func(i, j int)) {
	s.rng.Shuffle(n, swap)
}
