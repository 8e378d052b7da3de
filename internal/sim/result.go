package sim

import (
	"github.com/talgya/econsim/internal/economy"
	"github.com/talgya/econsim/internal/finance"
)

// MoneyStats summarizes the wealth distribution at the end of a run.
type MoneyStats struct {
	Total float64 `json:"total"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// PersonSnapshot is one person's terminal state in the result.
type PersonSnapshot struct {
	ID      int     `json:"id"`
	Money   float64 `json:"money"`
	Savings float64 `json:"savings"`
	Active  bool    `json:"active"`
}

// SimulationResult is the terminal snapshot handed to external consumers
// (statistics, persistence). Produced exactly once per run.
type SimulationResult struct {
	TotalSteps    int `json:"total_steps"`
	ActivePersons int `json:"active_persons"`

	Money   MoneyStats       `json:"money"`
	Persons []PersonSnapshot `json:"persons"`

	TotalTrades       int `json:"total_trades"`
	TotalFailedTrades int `json:"total_failed_trades"`
	TotalCrises       int `json:"total_crises"`

	TaxCollected      float64 `json:"tax_collected"`
	TaxRedistributed  float64 `json:"tax_redistributed"`
	InsurancePoolLeft float64 `json:"insurance_pool_left"`

	Sustainability float64 `json:"sustainability"`
	ExchangeRate   float64 `json:"exchange_rate"`

	Market economy.MarketStats `json:"market"`

	Loans      *finance.LoanStats      `json:"loans,omitempty"`
	Insurance  *finance.InsuranceStats `json:"insurance,omitempty"`
	Agreements *economy.AgreementStats `json:"agreements,omitempty"`
}
