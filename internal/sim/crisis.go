package sim

import (
	"github.com/talgya/econsim/internal/entropy"
)

// CrisisKind enumerates the economic shocks the engine can inject.
type CrisisKind uint8

const (
	CrisisMarketCrash CrisisKind = iota
	CrisisDemandShock
	CrisisSupplyShock
	CrisisCurrencyDevaluation
	CrisisTechnologyShock
)

// AllCrisisKinds lists every crisis kind in a fixed order.
func AllCrisisKinds() [5]CrisisKind {
	return [5]CrisisKind{
		CrisisMarketCrash,
		CrisisDemandShock,
		CrisisSupplyShock,
		CrisisCurrencyDevaluation,
		CrisisTechnologyShock,
	}
}

// String returns the crisis kind name used in action logs.
func (k CrisisKind) String() string {
	switch k {
	case CrisisMarketCrash:
		return "MarketCrash"
	case CrisisDemandShock:
		return "DemandShock"
	case CrisisSupplyShock:
		return "SupplyShock"
	case CrisisCurrencyDevaluation:
		return "CurrencyDevaluation"
	case CrisisTechnologyShock:
		return "TechnologyShock"
	}
	return "Unknown"
}

// Drop bands per crisis kind: the drop fraction is base + span×severity, with
// multiplicative noise layered on top. Every factor is positive, so a
// positive finite input always yields a positive finite output strictly below
// the input.
const (
	crashDropBase, crashDropSpan       = 0.20, 0.20
	demandDropBase, demandDropSpan     = 0.30, 0.20
	supplyDropBase, supplyDropSpan     = 0.20, 0.20
	currencyDropBase, currencyDropSpan = 0.10, 0.20
	techDropBase, techDropSpan         = 0.50, 0.30
)

// ApplyEffect returns the post-crisis value for a base value under this kind
// at the given severity. Severity is clamped to [0, 1] and linearly
// interpolates the drop within the kind's band; noise is ±10% generally and
// ±5% for money.
func (k CrisisKind) ApplyEffect(base, severity float64, rng *entropy.Stream) float64 {
	severity = clampSeverity(severity)

	var drop, noiseLo, noiseHi float64
	switch k {
	case CrisisMarketCrash:
		drop, noiseLo, noiseHi = crashDropBase+crashDropSpan*severity, 0.9, 1.1
	case CrisisDemandShock:
		drop, noiseLo, noiseHi = demandDropBase+demandDropSpan*severity, 0.9, 1.1
	case CrisisSupplyShock:
		drop, noiseLo, noiseHi = supplyDropBase+supplyDropSpan*severity, 0.9, 1.1
	case CrisisCurrencyDevaluation:
		drop, noiseLo, noiseHi = currencyDropBase+currencyDropSpan*severity, 0.95, 1.05
	case CrisisTechnologyShock:
		drop, noiseLo, noiseHi = techDropBase+techDropSpan*severity, 0.9, 1.1
	}

	noise := rng.Range(noiseLo, noiseHi)
	return base * (1.0 - drop) * noise
}

// TechShockShare returns the fraction of skills a technology shock hits:
// 20% plus up to another 20% by severity.
func TechShockShare(severity float64) float64 {
	return 0.20 + clampSeverity(severity)*0.20
}

func clampSeverity(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
