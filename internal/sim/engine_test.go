package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/econsim/internal/config"
)

func fullFeatureConfig() config.SimulationConfig {
	cfg := config.Default()
	cfg.EntityCount = 20
	cfg.MaxSteps = 30
	cfg.Seed = 7
	cfg.Scenario = config.ScenarioAuctionPricing
	cfg.DemandStrategy = config.DemandCyclical
	cfg.SavingsRate = 0.05
	cfg.TechGrowthRate = 0.001
	cfg.TransactionFeeRate = 0.01
	cfg.SeasonalAmplitude = 0.2
	cfg.EnableCrisisEvents = true
	cfg.CrisisProbability = 0.3
	cfg.EnableLoans = true
	cfg.EnableInsurance = true
	cfg.TaxRate = 0.1
	cfg.EnableTaxRedistribution = true
	cfg.EnableTradeAgreements = true
	cfg.TradeAgreementProbability = 0.2
	return cfg
}

func TestEngineRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.EntityCount = 0

	_, err := NewEngine(cfg)
	require.Error(t, err)
}

func TestRunIsDeterministic(t *testing.T) {
	cfg := fullFeatureConfig()

	a, err := NewEngine(cfg)
	require.NoError(t, err)
	b, err := NewEngine(cfg)
	require.NoError(t, err)

	ra, err := a.Run()
	require.NoError(t, err)
	rb, err := b.Run()
	require.NoError(t, err)

	// Same config and seed: identical action logs and identical results.
	assert.Equal(t, a.ActionLog(), b.ActionLog())
	assert.Equal(t, ra, rb)
	assert.NotEmpty(t, a.ActionLog().Actions)
}

func TestDifferentSeedsDiverge(t *testing.T) {
	cfg := fullFeatureConfig()

	a, err := NewEngine(cfg)
	require.NoError(t, err)
	cfg.Seed = 8
	b, err := NewEngine(cfg)
	require.NoError(t, err)

	_, err = a.Run()
	require.NoError(t, err)
	_, err = b.Run()
	require.NoError(t, err)

	assert.NotEqual(t, a.ActionLog().Actions, b.ActionLog().Actions)
}

func TestMoneyConservation(t *testing.T) {
	// Every money-moving subsystem on, crises off: total wealth plus treasury
	// plus insurance pool holds steady.
	cfg := fullFeatureConfig()
	cfg.EnableCrisisEvents = false
	cfg.MaxSteps = 60

	e, err := NewEngine(cfg)
	require.NoError(t, err)

	initial := e.TotalMoney()
	assert.InDelta(t, float64(cfg.EntityCount)*cfg.InitialMoneyPerPerson, initial, 1e-9)

	for i := 0; i < cfg.MaxSteps; i++ {
		require.NoError(t, e.Step())
		assert.InDelta(t, initial, e.TotalMoney(), 1e-6, "step %d", i)
	}
}

func TestStepCounterMonotonic(t *testing.T) {
	cfg := config.Default()
	cfg.EntityCount = 10
	cfg.MaxSteps = 5

	e, err := NewEngine(cfg)
	require.NoError(t, err)

	for want := 1; want <= cfg.MaxSteps; want++ {
		require.NoError(t, e.Step())
		assert.Equal(t, want, e.CurrentStep())
	}

	// Stepping past max_steps fails and the counter does not move.
	require.Error(t, e.Step())
	assert.Equal(t, cfg.MaxSteps, e.CurrentStep())
}

func TestRunTwiceErrors(t *testing.T) {
	cfg := config.Default()
	cfg.EntityCount = 10
	cfg.MaxSteps = 3

	e, err := NewEngine(cfg)
	require.NoError(t, err)

	_, err = e.Run()
	require.NoError(t, err)
	_, err = e.Run()
	require.Error(t, err)
}

func TestRunResultSnapshot(t *testing.T) {
	cfg := fullFeatureConfig()

	e, err := NewEngine(cfg)
	require.NoError(t, err)
	result, err := e.Run()
	require.NoError(t, err)

	assert.Equal(t, cfg.MaxSteps, result.TotalSteps)
	assert.Len(t, result.Persons, cfg.EntityCount)
	assert.Greater(t, result.TotalTrades, 0)
	assert.Greater(t, result.Money.Total, 0.0)
	assert.GreaterOrEqual(t, result.Money.Max, result.Money.Mean)
	assert.GreaterOrEqual(t, result.Money.Mean, result.Money.Min)
	assert.Greater(t, result.ExchangeRate, 0.0)
	assert.LessOrEqual(t, result.Sustainability, 1.0)
	require.NotNil(t, result.Loans)
	require.NotNil(t, result.Insurance)
	require.NotNil(t, result.Agreements)
}

func TestTransactionFeeAccruesToTreasury(t *testing.T) {
	cfg := config.Default()
	cfg.EntityCount = 4
	cfg.TransactionFeeRate = 0.1
	cfg.TaxRate = 0.2

	e, err := NewEngine(cfg)
	require.NoError(t, err)

	buyer := e.pool.Get(0)
	seller := e.pool.Get(1)
	buyer.Money, seller.Money = 100.0, 100.0

	e.executeTrade(buyer, seller, "skill-0000", 10.0)

	effective := 10.0 * 1.1
	tax := effective * 0.2
	fee := effective * 0.1 / 1.1
	assert.InDelta(t, 100.0-effective, buyer.Money, 1e-9)
	assert.InDelta(t, 100.0+effective-tax-fee, seller.Money, 1e-9)
	assert.InDelta(t, tax+fee, e.government.TotalCollected, 1e-9)
}

func TestAgreementsSkipInactiveFriends(t *testing.T) {
	cfg := config.Default()
	cfg.EntityCount = 6
	cfg.MaxSteps = 10
	cfg.EnableTradeAgreements = true
	cfg.TradeAgreementProbability = 1.0

	e, err := NewEngine(cfg)
	require.NoError(t, err)

	// Only person 0 remains active; every friend draw lands on a retired
	// person, so no agreement may form.
	for _, p := range e.pool.All() {
		if p.ID != 0 {
			p.Active = false
		}
	}

	e.sweepAndFormAgreements()
	assert.Empty(t, e.agreements)
}

func TestCrisisEventsAppearInLog(t *testing.T) {
	cfg := fullFeatureConfig()
	cfg.CrisisProbability = 1.0

	e, err := NewEngine(cfg)
	require.NoError(t, err)
	result, err := e.Run()
	require.NoError(t, err)

	assert.Equal(t, result.TotalSteps, result.TotalCrises)
	crises := 0
	for _, a := range e.ActionLog().Actions {
		if a.Type == ActionCrisisEvent {
			crises++
			assert.Equal(t, cfg.CrisisSeverity, a.Severity)
		}
	}
	assert.Equal(t, result.TotalSteps, crises)
}

func TestPriceUpdatesLoggedAboveTolerance(t *testing.T) {
	cfg := config.Default()
	cfg.EntityCount = 10
	cfg.MaxSteps = 10
	cfg.Scenario = config.ScenarioDynamicPricing

	e, err := NewEngine(cfg)
	require.NoError(t, err)
	_, err = e.Run()
	require.NoError(t, err)

	found := false
	for _, a := range e.ActionLog().Actions {
		if a.Type != ActionPriceUpdate {
			continue
		}
		found = true
		diff := a.NewPrice - a.OldPrice
		if diff < 0 {
			diff = -diff
		}
		assert.Greater(t, diff, priceChangeTolerance)
	}
	assert.True(t, found)
}
