package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/econsim/internal/entropy"
)

func newTestMarket(strategy PricingStrategy) *Market {
	// Volatility disabled for predictable assertions.
	return NewMarket(1.0, 0.1, 0.0, PriceUpdater{Strategy: strategy})
}

func TestMarketAddAndPrice(t *testing.T) {
	m := newTestMarket(PricingOriginal)
	m.AddSkill(NewSkill("skill-0001", "Carpentry", 10.0))

	price, ok := m.Price("skill-0001")
	assert.True(t, ok)
	assert.Equal(t, 10.0, price)

	_, ok = m.Price("skill-9999")
	assert.False(t, ok)
}

func TestMarketSkillIDsSorted(t *testing.T) {
	m := newTestMarket(PricingOriginal)
	m.AddSkill(NewSkill("skill-0003", "C", 10.0))
	m.AddSkill(NewSkill("skill-0001", "A", 10.0))
	m.AddSkill(NewSkill("skill-0002", "B", 10.0))

	assert.Equal(t, []SkillID{"skill-0001", "skill-0002", "skill-0003"}, m.SkillIDs())
}

func TestOriginalPricingRespondsToRatio(t *testing.T) {
	m := newTestMarket(PricingOriginal)
	m.AddSkill(NewSkill("skill-0001", "A", 10.0))
	rng := entropy.NewStream(1)

	// Demand 3, supply 1: ratio 3, price factor 1 + (3-1)*0.1 = 1.2.
	m.SetDemand("skill-0001", 3)
	m.SetSupply("skill-0001", 1)
	m.UpdatePrices(rng)

	price, _ := m.Price("skill-0001")
	assert.InDelta(t, 12.0, price, 1e-9)
}

func TestOriginalPricingFloorsAtMin(t *testing.T) {
	m := newTestMarket(PricingOriginal)
	m.AddSkill(NewSkill("skill-0001", "A", 1.05))
	rng := entropy.NewStream(1)

	// Zero demand drives the price down to the floor, never below.
	for i := 0; i < 20; i++ {
		m.SetSupply("skill-0001", 5)
		m.UpdatePrices(rng)
	}
	price, _ := m.Price("skill-0001")
	assert.GreaterOrEqual(t, price, m.MinSkillPrice)
}

func TestDynamicPricingSoldAndUnsold(t *testing.T) {
	m := newTestMarket(PricingDynamic)
	m.AddSkill(NewSkill("skill-0001", "A", 100.0))
	rng := entropy.NewStream(1)

	m.RecordSale("skill-0001")
	m.UpdatePrices(rng)
	price, _ := m.Price("skill-0001")
	assert.InDelta(t, 105.0, price, 1e-9)

	m.ResetStepCounters()
	m.UpdatePrices(rng)
	price, _ = m.Price("skill-0001")
	assert.InDelta(t, 99.75, price, 1e-9) // 105 * 0.95
}

func TestAdaptivePricingMovesTowardTarget(t *testing.T) {
	m := newTestMarket(PricingAdaptive)
	m.AddSkill(NewSkill("skill-0001", "A", 100.0))
	rng := entropy.NewStream(1)

	// Sold: target 110, learning rate 0.2 → 102.
	m.RecordSale("skill-0001")
	m.UpdatePrices(rng)
	price, _ := m.Price("skill-0001")
	assert.InDelta(t, 102.0, price, 1e-9)

	// Not sold: target 102*0.9=91.8 → 102 + 0.2*(91.8-102) = 99.96.
	m.ResetStepCounters()
	m.UpdatePrices(rng)
	price, _ = m.Price("skill-0001")
	assert.InDelta(t, 99.96, price, 1e-9)
}

func TestAuctionPricingCompetitiveIncreaseCapped(t *testing.T) {
	m := newTestMarket(PricingAuction)
	m.AddSkill(NewSkill("skill-0001", "A", 100.0))
	rng := entropy.NewStream(1)

	// Extreme competition hits the 30% cap; 2% volatility bounds the rest.
	m.SetDemand("skill-0001", 50)
	m.SetSupply("skill-0001", 1)
	m.UpdatePrices(rng)

	price, _ := m.Price("skill-0001")
	assert.Greater(t, price, 100.0)
	assert.LessOrEqual(t, price, 130.0*1.02+1e-9)
}

func TestAuctionPricingNoDemandDecay(t *testing.T) {
	m := newTestMarket(PricingAuction)
	m.AddSkill(NewSkill("skill-0001", "A", 100.0))
	rng := entropy.NewStream(1)

	m.SetSupply("skill-0001", 1)
	m.UpdatePrices(rng)

	// 8% decrease with ±2% volatility.
	price, _ := m.Price("skill-0001")
	assert.InDelta(t, 92.0, price, 92.0*0.02+1e-9)
}

func TestMarketPerSkillLimits(t *testing.T) {
	m := newTestMarket(PricingDynamic)
	m.AddSkill(NewSkill("skill-0001", "A", 100.0))
	max := 101.0
	m.SetPriceLimits("skill-0001", PriceLimits{Max: &max})
	rng := entropy.NewStream(1)

	m.RecordSale("skill-0001")
	m.UpdatePrices(rng)

	price, _ := m.Price("skill-0001")
	assert.Equal(t, 101.0, price)
}

func TestMarketStatsCache(t *testing.T) {
	m := newTestMarket(PricingOriginal)
	m.AddSkill(NewSkill("skill-0001", "A", 10.0))
	m.AddSkill(NewSkill("skill-0002", "B", 30.0))

	stats := m.Stats()
	assert.Equal(t, 10.0, stats.MinPrice)
	assert.Equal(t, 30.0, stats.MaxPrice)
	assert.InDelta(t, 20.0, stats.MeanPrice, 1e-9)

	// A price write invalidates the cache.
	m.SetPrice("skill-0001", 20.0)
	stats = m.Stats()
	assert.Equal(t, 20.0, stats.MinPrice)
	assert.InDelta(t, 25.0, stats.MeanPrice, 1e-9)
}

func TestApplyTechGrowth(t *testing.T) {
	m := newTestMarket(PricingOriginal)
	m.AddSkill(NewSkill("skill-0001", "A", 100.0))

	m.ApplyTechGrowth(0.1)
	price, _ := m.Price("skill-0001")
	assert.InDelta(t, 90.0, price, 1e-9)

	// Floored at the minimum price.
	for i := 0; i < 100; i++ {
		m.ApplyTechGrowth(0.5)
	}
	price, _ = m.Price("skill-0001")
	assert.Equal(t, m.MinSkillPrice, price)
}

func TestResetStepCounters(t *testing.T) {
	m := newTestMarket(PricingOriginal)
	m.AddSkill(NewSkill("skill-0001", "A", 10.0))
	m.IncrementDemand("skill-0001")
	m.RecordSale("skill-0001")

	m.ResetStepCounters()
	assert.Equal(t, 0, m.Demand("skill-0001"))
}

func TestPriceHistoryRecorded(t *testing.T) {
	m := newTestMarket(PricingDynamic)
	m.AddSkill(NewSkill("skill-0001", "A", 100.0))
	rng := entropy.NewStream(1)

	m.UpdatePrices(rng)
	m.UpdatePrices(rng)

	history := m.PriceHistory("skill-0001")
	assert.Len(t, history, 3) // initial price plus two updates
}
