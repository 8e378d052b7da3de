// Package config defines the immutable per-run simulation configuration,
// its validation rules, and YAML/TOML file loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrUnsupportedFormat is returned when a config file has an extension other
// than .yaml, .yml, or .toml.
var ErrUnsupportedFormat = errors.New("unsupported config format (use .yaml, .yml, or .toml)")

// Scenario selects the market's price-update strategy.
type Scenario string

const (
	ScenarioOriginal        Scenario = "Original"
	ScenarioDynamicPricing  Scenario = "DynamicPricing"
	ScenarioAdaptivePricing Scenario = "AdaptivePricing"
	ScenarioAuctionPricing  Scenario = "AuctionPricing"
)

// DemandStrategy selects how per-person demand counts are generated each step.
type DemandStrategy string

const (
	DemandUniform      DemandStrategy = "Uniform"
	DemandConcentrated DemandStrategy = "Concentrated"
	DemandCyclical     DemandStrategy = "Cyclical"
)

// SimulationConfig holds every tunable for one run. Validated once before the
// engine is constructed; never mutated afterwards.
type SimulationConfig struct {
	EntityCount           int            `yaml:"entity_count" toml:"entity_count" json:"entity_count"`
	MaxSteps              int            `yaml:"max_steps" toml:"max_steps" json:"max_steps"`
	Seed                  uint64         `yaml:"seed" toml:"seed" json:"seed"`
	TimeStep              float64        `yaml:"time_step" toml:"time_step" json:"time_step"`
	Scenario              Scenario       `yaml:"scenario" toml:"scenario" json:"scenario"`
	DemandStrategy        DemandStrategy `yaml:"demand_strategy" toml:"demand_strategy" json:"demand_strategy"`
	InitialMoneyPerPerson float64        `yaml:"initial_money_per_person" toml:"initial_money_per_person" json:"initial_money_per_person"`
	BaseSkillPrice        float64        `yaml:"base_skill_price" toml:"base_skill_price" json:"base_skill_price"`
	MinSkillPrice         float64        `yaml:"min_skill_price" toml:"min_skill_price" json:"min_skill_price"`
	SkillsPerPerson       int            `yaml:"skills_per_person" toml:"skills_per_person" json:"skills_per_person"`

	SavingsRate        float64 `yaml:"savings_rate" toml:"savings_rate" json:"savings_rate"`
	TechGrowthRate     float64 `yaml:"tech_growth_rate" toml:"tech_growth_rate" json:"tech_growth_rate"`
	TransactionFeeRate float64 `yaml:"transaction_fee_rate" toml:"transaction_fee_rate" json:"transaction_fee_rate"`
	SeasonalAmplitude  float64 `yaml:"seasonal_amplitude" toml:"seasonal_amplitude" json:"seasonal_amplitude"`

	// Crisis events.
	EnableCrisisEvents bool    `yaml:"enable_crisis_events" toml:"enable_crisis_events" json:"enable_crisis_events"`
	CrisisProbability  float64 `yaml:"crisis_probability" toml:"crisis_probability" json:"crisis_probability"`
	CrisisSeverity     float64 `yaml:"crisis_severity" toml:"crisis_severity" json:"crisis_severity"`

	// Loans.
	EnableLoans        bool    `yaml:"enable_loans" toml:"enable_loans" json:"enable_loans"`
	LoanInterestRate   float64 `yaml:"loan_interest_rate" toml:"loan_interest_rate" json:"loan_interest_rate"`
	LoanRepaymentSteps int     `yaml:"loan_repayment_steps" toml:"loan_repayment_steps" json:"loan_repayment_steps"`
	MinLendableBalance float64 `yaml:"min_lendable_balance" toml:"min_lendable_balance" json:"min_lendable_balance"`

	// Insurance.
	EnableInsurance              bool    `yaml:"enable_insurance" toml:"enable_insurance" json:"enable_insurance"`
	InsurancePremiumRate         float64 `yaml:"insurance_premium_rate" toml:"insurance_premium_rate" json:"insurance_premium_rate"`
	InsuranceDuration            int     `yaml:"insurance_duration" toml:"insurance_duration" json:"insurance_duration"`
	InsurancePurchaseProbability float64 `yaml:"insurance_purchase_probability" toml:"insurance_purchase_probability" json:"insurance_purchase_probability"`
	InsuranceCoverageAmount      float64 `yaml:"insurance_coverage_amount" toml:"insurance_coverage_amount" json:"insurance_coverage_amount"`

	// Taxation.
	TaxRate                 float64 `yaml:"tax_rate" toml:"tax_rate" json:"tax_rate"`
	EnableTaxRedistribution bool    `yaml:"enable_tax_redistribution" toml:"enable_tax_redistribution" json:"enable_tax_redistribution"`

	// Trade agreements.
	EnableTradeAgreements     bool    `yaml:"enable_trade_agreements" toml:"enable_trade_agreements" json:"enable_trade_agreements"`
	TradeAgreementProbability float64 `yaml:"trade_agreement_probability" toml:"trade_agreement_probability" json:"trade_agreement_probability"`
	TradeAgreementDiscount    float64 `yaml:"trade_agreement_discount" toml:"trade_agreement_discount" json:"trade_agreement_discount"`
	TradeAgreementDuration    int     `yaml:"trade_agreement_duration" toml:"trade_agreement_duration" json:"trade_agreement_duration"`
}

// Default returns a configuration with the standard baseline values.
func Default() SimulationConfig {
	return SimulationConfig{
		EntityCount:           100,
		MaxSteps:              500,
		Seed:                  42,
		TimeStep:              1.0,
		Scenario:              ScenarioOriginal,
		DemandStrategy:        DemandUniform,
		InitialMoneyPerPerson: 100.0,
		BaseSkillPrice:        10.0,
		MinSkillPrice:         1.0,
		SkillsPerPerson:       2,

		SavingsRate:        0.0,
		TechGrowthRate:     0.0,
		TransactionFeeRate: 0.0,
		SeasonalAmplitude:  0.0,

		EnableCrisisEvents: false,
		CrisisProbability:  0.05,
		CrisisSeverity:     0.5,

		EnableLoans:        false,
		LoanInterestRate:   0.05,
		LoanRepaymentSteps: 10,
		MinLendableBalance: 200.0,

		EnableInsurance:              false,
		InsurancePremiumRate:         0.02,
		InsuranceDuration:            50,
		InsurancePurchaseProbability: 0.1,
		InsuranceCoverageAmount:      100.0,

		TaxRate:                 0.0,
		EnableTaxRedistribution: false,

		EnableTradeAgreements:     false,
		TradeAgreementProbability: 0.05,
		TradeAgreementDiscount:    0.1,
		TradeAgreementDuration:    50,
	}
}

// Load reads a configuration file, dispatching on its extension, applies it
// over the defaults, and validates the result.
func Load(path string) (SimulationConfig, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse yaml config: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse toml config: %w", err)
		}
	default:
		return cfg, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every field against its allowed range. Called before any
// simulation step runs; a failure here is fatal to the run.
func (c *SimulationConfig) Validate() error {
	if c.MaxSteps <= 0 || c.MaxSteps > 1_000_000 {
		return fmt.Errorf("validate config: max_steps must be in (0, 1000000], got %d", c.MaxSteps)
	}
	if c.EntityCount <= 0 || c.EntityCount > 100_000 {
		return fmt.Errorf("validate config: entity_count must be in (0, 100000], got %d", c.EntityCount)
	}
	if c.InitialMoneyPerPerson < 0 {
		return fmt.Errorf("validate config: initial_money_per_person must be >= 0, got %v", c.InitialMoneyPerPerson)
	}
	if c.BaseSkillPrice <= 0 {
		return fmt.Errorf("validate config: base_skill_price must be > 0, got %v", c.BaseSkillPrice)
	}
	if c.MinSkillPrice < 0 {
		return fmt.Errorf("validate config: min_skill_price must be >= 0, got %v", c.MinSkillPrice)
	}
	if c.TimeStep <= 0 {
		return fmt.Errorf("validate config: time_step must be > 0, got %v", c.TimeStep)
	}
	if c.SkillsPerPerson <= 0 {
		return fmt.Errorf("validate config: skills_per_person must be > 0, got %d", c.SkillsPerPerson)
	}
	if c.TechGrowthRate > 1.0 {
		return fmt.Errorf("validate config: tech_growth_rate must be <= 1.0, got %v", c.TechGrowthRate)
	}

	rates := []struct {
		name  string
		value float64
	}{
		{"savings_rate", c.SavingsRate},
		{"transaction_fee_rate", c.TransactionFeeRate},
		{"crisis_probability", c.CrisisProbability},
		{"crisis_severity", c.CrisisSeverity},
		{"loan_interest_rate", c.LoanInterestRate},
		{"insurance_premium_rate", c.InsurancePremiumRate},
		{"insurance_purchase_probability", c.InsurancePurchaseProbability},
		{"tax_rate", c.TaxRate},
		{"trade_agreement_probability", c.TradeAgreementProbability},
		{"trade_agreement_discount", c.TradeAgreementDiscount},
	}
	for _, r := range rates {
		if r.value < 0 || r.value > 1 {
			return fmt.Errorf("validate config: %s must be in [0, 1], got %v", r.name, r.value)
		}
	}

	switch c.Scenario {
	case ScenarioOriginal, ScenarioDynamicPricing, ScenarioAdaptivePricing, ScenarioAuctionPricing:
	default:
		return fmt.Errorf("validate config: unknown scenario %q", c.Scenario)
	}
	switch c.DemandStrategy {
	case DemandUniform, DemandConcentrated, DemandCyclical:
	default:
		return fmt.Errorf("validate config: unknown demand_strategy %q", c.DemandStrategy)
	}

	if c.EnableLoans && c.LoanRepaymentSteps <= 0 {
		return fmt.Errorf("validate config: loan_repayment_steps must be > 0 when loans are enabled, got %d", c.LoanRepaymentSteps)
	}
	if c.EnableInsurance && c.InsuranceCoverageAmount <= 0 {
		return fmt.Errorf("validate config: insurance_coverage_amount must be > 0 when insurance is enabled, got %v", c.InsuranceCoverageAmount)
	}
	if c.EnableTradeAgreements && c.TradeAgreementDuration <= 0 {
		return fmt.Errorf("validate config: trade_agreement_duration must be > 0 when agreements are enabled, got %d", c.TradeAgreementDuration)
	}

	return nil
}
