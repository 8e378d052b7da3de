package economy

import (
	"log/slog"

	"github.com/talgya/econsim/internal/entropy"
)

// PricingStrategy names one of the closed set of price-update strategies.
type PricingStrategy uint8

const (
	PricingOriginal PricingStrategy = iota
	PricingDynamic
	PricingAdaptive
	PricingAuction
)

// String returns the scenario name for logging.
func (p PricingStrategy) String() string {
	switch p {
	case PricingOriginal:
		return "Original"
	case PricingDynamic:
		return "DynamicPricing"
	case PricingAdaptive:
		return "AdaptivePricing"
	case PricingAuction:
		return "AuctionPricing"
	}
	return "Unknown"
}

// PriceUpdater dispatches over the closed set of pricing strategies. The set
// of scenarios is fixed and small, so a tagged value beats dynamic dispatch
// and stays trivially swappable.
type PriceUpdater struct {
	Strategy PricingStrategy
}

// UpdatePrices applies the strategy to every skill in ascending id order.
func (u PriceUpdater) UpdatePrices(m *Market, rng *entropy.Stream) {
	switch u.Strategy {
	case PricingDynamic:
		u.updateDynamic(m)
	case PricingAdaptive:
		u.updateAdaptive(m)
	case PricingAuction:
		u.updateAuction(m, rng)
	default:
		u.updateOriginal(m, rng)
	}
}

// updateOriginal adjusts each price by the demand/supply ratio through the
// elasticity factor, then layers uniform volatility on top.
func (u PriceUpdater) updateOriginal(m *Market, rng *entropy.Stream) {
	for _, id := range m.SkillIDs() {
		skill := m.skills[id]
		min, max := m.limitsFor(id)

		demand := float64(m.demandCounts[id])
		supply := float64(m.supplyCounts[id])
		if supply < 1 {
			supply = 1
		}

		ratio := demand / supply
		newPrice := skill.CurrentPrice * (1.0 + (ratio-1.0)*m.PriceElasticityFactor)

		volRange := newPrice * m.VolatilityPercentage
		newPrice += rng.Range(-volRange, volRange)

		oldPrice := skill.CurrentPrice
		skill.CurrentPrice = clamp(newPrice, min, max)
		m.priceHistory[id] = append(m.priceHistory[id], skill.CurrentPrice)

		slog.Debug("price update",
			"strategy", "Original",
			"skill", id,
			"old", oldPrice,
			"new", skill.CurrentPrice,
			"ratio", ratio,
		)
	}
}

// updateDynamic raises a price 5% when the skill sold this step and lowers it
// 5% when it did not.
func (u PriceUpdater) updateDynamic(m *Market) {
	const changeRate = 0.05

	for _, id := range m.SkillIDs() {
		skill := m.skills[id]
		min, max := m.limitsFor(id)

		newPrice := skill.CurrentPrice
		if m.salesThisStep[id] > 0 {
			newPrice *= 1.0 + changeRate
		} else {
			newPrice *= 1.0 - changeRate
		}

		skill.CurrentPrice = clamp(newPrice, min, max)
		m.priceHistory[id] = append(m.priceHistory[id], skill.CurrentPrice)
	}
}

// updateAdaptive moves each price 20% of the way toward a target of ×1.1 when
// sold or ×0.9 when not, an exponential moving average that damps
// oscillation.
func (u PriceUpdater) updateAdaptive(m *Market) {
	const (
		learningRate   = 0.2
		targetIncrease = 1.1
		targetDecrease = 0.9
	)

	for _, id := range m.SkillIDs() {
		skill := m.skills[id]
		min, max := m.limitsFor(id)

		current := skill.CurrentPrice
		target := current * targetDecrease
		if m.salesThisStep[id] > 0 {
			target = current * targetIncrease
		}

		newPrice := current + learningRate*(target-current)
		skill.CurrentPrice = clamp(newPrice, min, max)
		m.priceHistory[id] = append(m.priceHistory[id], skill.CurrentPrice)
	}
}

// updateAuction raises prices aggressively under competitive demand (base 10%
// plus a quadratic competition term capped at 30% per step), drops 8% with no
// demand and 3% with low demand, then adds 2% volatility.
func (u PriceUpdater) updateAuction(m *Market, rng *entropy.Stream) {
	for _, id := range m.SkillIDs() {
		skill := m.skills[id]
		min, max := m.limitsFor(id)

		demand := float64(m.demandCounts[id])
		supply := float64(m.supplyCounts[id])
		if supply < 1 {
			supply = 1
		}

		newPrice := skill.CurrentPrice
		switch {
		case demand > supply:
			competition := demand / supply
			increase := 0.10 + (competition-1.0)*(competition-1.0)*0.05
			if increase > 0.30 {
				increase = 0.30
			}
			newPrice *= 1.0 + increase
		case demand == 0:
			newPrice *= 0.92
		default:
			newPrice *= 0.97
		}

		volRange := newPrice * 0.02
		newPrice += rng.Range(-volRange, volRange)

		skill.CurrentPrice = clamp(newPrice, min, max)
		m.priceHistory[id] = append(m.priceHistory[id], skill.CurrentPrice)
	}
}
