// Package economy provides market mechanics, pricing strategies, currency,
// taxation, trade agreements, auctions, and environmental accounting.
package economy

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/talgya/econsim/internal/entropy"
)

// DefaultMaxSkillPrice caps prices when no per-skill limit is set.
const DefaultMaxSkillPrice = 1000.0

// PriceLimits optionally overrides the market-wide price bounds for one skill.
type PriceLimits struct {
	Min *float64
	Max *float64
}

// MarketStats summarizes current prices across all skills.
type MarketStats struct {
	MinPrice  float64 `json:"min_price"`
	MaxPrice  float64 `json:"max_price"`
	MeanPrice float64 `json:"mean_price"`
}

// Market holds per-skill price, supply, and demand state plus the pricing
// strategy selected by scenario. Prices stay finite and within
// [min, max] bounds after every update.
type Market struct {
	skills        map[SkillID]*Skill
	demandCounts  map[SkillID]int
	supplyCounts  map[SkillID]int
	salesThisStep map[SkillID]int
	priceLimits   map[SkillID]PriceLimits
	priceHistory  map[SkillID][]float64

	MinSkillPrice         float64
	MaxSkillPrice         float64
	PriceElasticityFactor float64
	VolatilityPercentage  float64

	updater PriceUpdater

	statsCache *MarketStats
}

// NewMarket creates an empty market with the given global price bounds,
// elasticity, volatility, and pricing strategy.
func NewMarket(minPrice, elasticity, volatility float64, updater PriceUpdater) *Market {
	return &Market{
		skills:                make(map[SkillID]*Skill),
		demandCounts:          make(map[SkillID]int),
		supplyCounts:          make(map[SkillID]int),
		salesThisStep:         make(map[SkillID]int),
		priceLimits:           make(map[SkillID]PriceLimits),
		priceHistory:          make(map[SkillID][]float64),
		MinSkillPrice:         minPrice,
		MaxSkillPrice:         DefaultMaxSkillPrice,
		PriceElasticityFactor: elasticity,
		VolatilityPercentage:  volatility,
		updater:               updater,
	}
}

// AddSkill registers a skill with the market.
func (m *Market) AddSkill(s *Skill) {
	m.skills[s.ID] = s
	m.priceHistory[s.ID] = []float64{s.CurrentPrice}
	m.statsCache = nil
}

// Price returns the current price for a skill id.
func (m *Market) Price(id SkillID) (float64, bool) {
	s, ok := m.skills[id]
	if !ok {
		return 0, false
	}
	return s.CurrentPrice, true
}

// Skill returns the skill for an id, or nil.
func (m *Market) Skill(id SkillID) *Skill {
	return m.skills[id]
}

// SkillIDs returns all skill ids in ascending order. Every market walk that
// affects outcomes goes through this to keep runs deterministic.
func (m *Market) SkillIDs() []SkillID {
	ids := maps.Keys(m.skills)
	slices.Sort(ids)
	return ids
}

// SkillCount returns the number of registered skills.
func (m *Market) SkillCount() int {
	return len(m.skills)
}

// IncrementDemand bumps the demand counter for a skill.
func (m *Market) IncrementDemand(id SkillID) {
	m.demandCounts[id]++
}

// SetSupply records the supply count for a skill (provider count this step).
func (m *Market) SetSupply(id SkillID, n int) {
	m.supplyCounts[id] = n
}

// SetDemand overwrites the demand counter for a skill (used by demand shocks).
func (m *Market) SetDemand(id SkillID, n int) {
	if n < 0 {
		n = 0
	}
	m.demandCounts[id] = n
}

// RecordSale bumps the per-step sales counter for a skill.
func (m *Market) RecordSale(id SkillID) {
	m.salesThisStep[id]++
}

// Demand returns the current demand counter for a skill.
func (m *Market) Demand(id SkillID) int {
	return m.demandCounts[id]
}

// ResetStepCounters clears the demand and sales counters at the start of a
// step. Supply counts are rebuilt by the engine from the provider census.
func (m *Market) ResetStepCounters() {
	for id := range m.demandCounts {
		delete(m.demandCounts, id)
	}
	for id := range m.salesThisStep {
		delete(m.salesThisStep, id)
	}
}

// SetPriceLimits sets per-skill price bounds overriding the market-wide ones.
func (m *Market) SetPriceLimits(id SkillID, limits PriceLimits) {
	m.priceLimits[id] = limits
}

// limitsFor resolves the effective bounds for one skill.
func (m *Market) limitsFor(id SkillID) (min, max float64) {
	min, max = m.MinSkillPrice, m.MaxSkillPrice
	if lim, ok := m.priceLimits[id]; ok {
		if lim.Min != nil {
			min = *lim.Min
		}
		if lim.Max != nil {
			max = *lim.Max
		}
	}
	return min, max
}

// UpdatePrices applies the selected pricing strategy to every skill, in
// ascending skill-id order so the volatility draws are reproducible.
func (m *Market) UpdatePrices(rng *entropy.Stream) {
	m.updater.UpdatePrices(m, rng)
	m.statsCache = nil
}

// SetPrice overwrites a skill's price directly (used by crisis effects),
// clamped to the skill's bounds.
func (m *Market) SetPrice(id SkillID, price float64) {
	s, ok := m.skills[id]
	if !ok {
		return
	}
	min, max := m.limitsFor(id)
	s.CurrentPrice = clamp(price, min, max)
	m.priceHistory[id] = append(m.priceHistory[id], s.CurrentPrice)
	m.statsCache = nil
}

// ApplyTechGrowth drifts every price downward by the tech growth rate
// (productivity gain), floored at each skill's minimum price.
func (m *Market) ApplyTechGrowth(rate float64) {
	if rate <= 0 {
		return
	}
	for _, id := range m.SkillIDs() {
		s := m.skills[id]
		min, max := m.limitsFor(id)
		s.CurrentPrice = clamp(s.CurrentPrice*(1.0-rate), min, max)
	}
	m.statsCache = nil
}

// PriceHistory returns the recorded price series for a skill.
func (m *Market) PriceHistory(id SkillID) []float64 {
	return m.priceHistory[id]
}

// Stats returns cached min/max/mean price statistics, recomputing after any
// price write.
func (m *Market) Stats() MarketStats {
	if m.statsCache != nil {
		return *m.statsCache
	}

	stats := MarketStats{}
	if len(m.skills) == 0 {
		m.statsCache = &stats
		return stats
	}

	first := true
	sum := 0.0
	for _, s := range m.skills {
		p := s.CurrentPrice
		if first {
			stats.MinPrice, stats.MaxPrice = p, p
			first = false
		} else {
			if p < stats.MinPrice {
				stats.MinPrice = p
			}
			if p > stats.MaxPrice {
				stats.MaxPrice = p
			}
		}
		sum += p
	}
	stats.MeanPrice = sum / float64(len(m.skills))
	m.statsCache = &stats
	return stats
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
