package economy

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/econsim/internal/entropy"
)

// DemandPattern names one of the closed set of demand generation strategies.
type DemandPattern uint8

const (
	// DemandPatternUniform draws 2–5 needs per person with equal probability.
	DemandPatternUniform DemandPattern = iota
	// DemandPatternConcentrated gives 70% of draws low demand (2–3) and 30%
	// high demand (4–5), modelling unequal consumption.
	DemandPatternConcentrated
	// DemandPatternCyclical oscillates demand on a 100-step sine cycle with a
	// per-person phase offset.
	DemandPatternCyclical
)

// DemandGenerator produces the number of skills a person wants each step.
type DemandGenerator struct {
	Pattern DemandPattern
}

const (
	demandMin   = 2
	demandMax   = 5
	cyclePeriod = 100.0
)

// Count returns this person's demand count for the step. Cyclical demand is a
// pure function of (person, step); the other patterns consume the run stream.
func (g DemandGenerator) Count(personID, step int, rng *entropy.Stream) int {
	switch g.Pattern {
	case DemandPatternConcentrated:
		if rng.Float() < 0.7 {
			return rng.IntRange(2, 3)
		}
		return rng.IntRange(4, 5)
	case DemandPatternCyclical:
		phase := float64(personID) * 0.1
		pos := (float64(step) + phase) / cyclePeriod
		sine := math.Sin(pos * 2.0 * math.Pi)
		normalized := (sine + 1.0) / 2.0
		demand := demandMin + int(math.Round(normalized*float64(demandMax-demandMin)))
		if demand < demandMin {
			demand = demandMin
		}
		if demand > demandMax {
			demand = demandMax
		}
		return demand
	default:
		return rng.IntRange(demandMin, demandMax)
	}
}

// Seasonality modulates demand with smooth, seeded gradient noise so the
// cycle differs per skill but is identical across runs with the same seed.
type Seasonality struct {
	noise     opensimplex.Noise
	amplitude float64
}

// NewSeasonality creates a seasonal modulator. Amplitude 0 disables it.
func NewSeasonality(seed uint64, amplitude float64) *Seasonality {
	return &Seasonality{
		noise:     opensimplex.New(int64(seed)),
		amplitude: amplitude,
	}
}

// Enabled reports whether seasonal modulation has any effect.
func (s *Seasonality) Enabled() bool {
	return s.amplitude > 0
}

// Factor returns the seasonal demand multiplier for one skill at one step,
// in [1-amplitude, 1+amplitude].
func (s *Seasonality) Factor(skillIndex, step int) float64 {
	if s.amplitude <= 0 {
		return 1.0
	}
	n := s.noise.Eval2(float64(step)/cyclePeriod, float64(skillIndex)*0.37)
	return 1.0 + s.amplitude*n
}
