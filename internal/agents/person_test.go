package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/econsim/internal/economy"
	"github.com/talgya/econsim/internal/entropy"
)

func TestStrategySpendingMultipliers(t *testing.T) {
	assert.Equal(t, 1.0, StrategyBalanced.SpendingMultiplier())
	assert.Equal(t, 1.5, StrategyAggressive.SpendingMultiplier())
	assert.Equal(t, 0.7, StrategyConservative.SpendingMultiplier())
	assert.Equal(t, 1.2, StrategyAdaptive.SpendingMultiplier())
}

func TestCanAffordWithStrategy(t *testing.T) {
	aggressive := NewPerson(0, 100.0, StrategyAggressive)
	conservative := NewPerson(1, 100.0, StrategyConservative)

	// Aggressive stretches to 150, conservative holds back at 70.
	assert.True(t, aggressive.CanAffordWithStrategy(140.0))
	assert.False(t, aggressive.CanAffordWithStrategy(151.0))
	assert.False(t, conservative.CanAffordWithStrategy(80.0))
	assert.True(t, conservative.CanAffordWithStrategy(70.0))
}

func TestApplySavings(t *testing.T) {
	p := NewPerson(0, 100.0, StrategyBalanced)

	saved := p.ApplySavings(0.1)
	assert.InDelta(t, 10.0, saved, 1e-9)
	assert.InDelta(t, 90.0, p.Money, 1e-9)
	assert.InDelta(t, 10.0, p.Savings, 1e-9)
	assert.InDelta(t, 100.0, p.TotalWealth(), 1e-9)

	// Zero rate and negative balance are no-ops.
	assert.Equal(t, 0.0, p.ApplySavings(0))
	p.Money = -5
	assert.Equal(t, 0.0, p.ApplySavings(0.1))
}

func TestAddFriendDeduplicates(t *testing.T) {
	p := NewPerson(0, 100.0, StrategyBalanced)
	p.AddFriend(1)
	p.AddFriend(1)
	p.AddFriend(0) // self-link ignored
	p.AddFriend(2)

	assert.Equal(t, []int{1, 2}, p.Friends)
}

func TestBeginStepClearsState(t *testing.T) {
	p := NewPerson(0, 100.0, StrategyBalanced)
	p.NeededSkills = append(p.NeededSkills, "skill-0001")
	p.MarkSatisfied("skill-0001")
	p.IncomeThisStep = 42

	p.BeginStep()
	assert.Empty(t, p.NeededSkills)
	assert.False(t, p.IsSatisfied("skill-0001"))
	assert.Equal(t, 0.0, p.IncomeThisStep)
}

func TestSpawnPopulationDeterministic(t *testing.T) {
	skills := []economy.SkillID{"skill-0000", "skill-0001", "skill-0002", "skill-0003"}
	spawner := &Spawner{InitialMoney: 100.0, SkillsPerPerson: 2}

	a := spawner.SpawnPopulation(10, skills, entropy.NewStream(7))
	b := spawner.SpawnPopulation(10, skills, entropy.NewStream(7))

	assert.Equal(t, a.ActiveCount(), b.ActiveCount())
	for i := 0; i < 10; i++ {
		pa, pb := a.Get(i), b.Get(i)
		assert.Equal(t, pa.Strategy, pb.Strategy)
		assert.Equal(t, pa.OwnSkills, pb.OwnSkills)
		assert.Equal(t, pa.Friends, pb.Friends)
	}
}

func TestSpawnPopulationAssignsSkillsAndMoney(t *testing.T) {
	skills := []economy.SkillID{"skill-0000", "skill-0001"}
	spawner := &Spawner{InitialMoney: 50.0, SkillsPerPerson: 1}
	pool := spawner.SpawnPopulation(4, skills, entropy.NewStream(1))

	assert.Equal(t, 4, pool.ActiveCount())
	assert.InDelta(t, 200.0, pool.TotalMoney(), 1e-9)
	for _, p := range pool.All() {
		assert.NotEmpty(t, p.OwnSkills)
		assert.Equal(t, -1, p.LoanID)
	}
}

func TestPoolLookup(t *testing.T) {
	pool := NewPool()
	pool.Add(NewPerson(3, 10.0, StrategyBalanced))

	assert.NotNil(t, pool.Get(3))
	assert.Nil(t, pool.Get(99))
}
