// Package agents provides the person data model and the pool that owns it.
// Persons reference skills, loans, policies, and agreements by id only; the
// engine is the sole mutator during a step.
package agents

import (
	"golang.org/x/exp/slices"

	"github.com/talgya/econsim/internal/economy"
)

// Strategy is a person's spending disposition, assigned at spawn.
type Strategy uint8

const (
	StrategyBalanced Strategy = iota
	StrategyAggressive
	StrategyConservative
	StrategyAdaptive
)

// AllStrategies lists every strategy in a fixed order.
func AllStrategies() [4]Strategy {
	return [4]Strategy{StrategyBalanced, StrategyAggressive, StrategyConservative, StrategyAdaptive}
}

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyBalanced:
		return "Balanced"
	case StrategyAggressive:
		return "Aggressive"
	case StrategyConservative:
		return "Conservative"
	case StrategyAdaptive:
		return "Adaptive"
	}
	return "Unknown"
}

// SpendingMultiplier scales how much of their balance a person is willing to
// commit to a single purchase.
func (s Strategy) SpendingMultiplier() float64 {
	switch s {
	case StrategyAggressive:
		return 1.5
	case StrategyConservative:
		return 0.7
	case StrategyAdaptive:
		return 1.2
	default:
		return 1.0
	}
}

// Person is one agent in the closed economy.
type Person struct {
	ID      int     `json:"id"`
	Money   float64 `json:"money"`
	Savings float64 `json:"savings"`
	Active  bool    `json:"active"`

	Strategy Strategy `json:"strategy"`

	// Skills this person offers for sale.
	OwnSkills []economy.SkillID `json:"own_skills"`

	// Skills wanted this step, rebuilt at the start of every step.
	NeededSkills []economy.SkillID `json:"-"`

	// Needs already satisfied this step.
	satisfiedThisStep map[economy.SkillID]bool

	// Social links used for trade agreement formation.
	Friends      []int `json:"friends"`
	AgreementIDs []int `json:"agreement_ids"`

	// Outstanding loan id, -1 when none.
	LoanID int `json:"loan_id"`

	// Income from sales this step, read by the insurance phase.
	IncomeThisStep float64 `json:"-"`
}

// NewPerson creates an active person with the given starting balance.
func NewPerson(id int, money float64, strategy Strategy) *Person {
	return &Person{
		ID:                id,
		Money:             money,
		Active:            true,
		Strategy:          strategy,
		LoanID:            -1,
		satisfiedThisStep: make(map[economy.SkillID]bool),
	}
}

// CanAfford reports whether the balance covers an amount.
func (p *Person) CanAfford(amount float64) bool {
	return p.Money >= amount
}

// CanAffordWithStrategy applies the strategy's spending multiplier to the
// affordability check: aggressive spenders stretch beyond their balance,
// conservative ones hold back.
func (p *Person) CanAffordWithStrategy(amount float64) bool {
	return p.Money*p.Strategy.SpendingMultiplier() >= amount
}

// HasSkill reports whether the person offers a skill.
func (p *Person) HasSkill(id economy.SkillID) bool {
	return slices.Contains(p.OwnSkills, id)
}

// BeginStep clears the per-step need and income state.
func (p *Person) BeginStep() {
	p.NeededSkills = p.NeededSkills[:0]
	p.IncomeThisStep = 0
	for id := range p.satisfiedThisStep {
		delete(p.satisfiedThisStep, id)
	}
}

// MarkSatisfied records that a needed skill was obtained this step.
func (p *Person) MarkSatisfied(id economy.SkillID) {
	p.satisfiedThisStep[id] = true
}

// IsSatisfied reports whether a need was already met this step.
func (p *Person) IsSatisfied(id economy.SkillID) bool {
	return p.satisfiedThisStep[id]
}

// ApplySavings moves a fraction of the balance into savings and returns the
// amount moved. Savings still count toward the person's total wealth.
func (p *Person) ApplySavings(rate float64) float64 {
	if rate <= 0 || p.Money <= 0 {
		return 0
	}
	saved := p.Money * rate
	p.Money -= saved
	p.Savings += saved
	return saved
}

// AddFriend links another person for agreement formation. Self-links and
// duplicates are ignored.
func (p *Person) AddFriend(id int) {
	if id == p.ID || slices.Contains(p.Friends, id) {
		return
	}
	p.Friends = append(p.Friends, id)
}

// TotalWealth returns balance plus savings.
func (p *Person) TotalWealth() float64 {
	return p.Money + p.Savings
}
