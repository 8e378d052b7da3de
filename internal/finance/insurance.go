package finance

// CoverageType enumerates what a policy protects against.
type CoverageType uint8

const (
	// CoverageCrisis pays out coverage×severity when a crisis fires.
	CoverageCrisis CoverageType = iota
	// CoverageIncome pays the shortfall when step income falls below the
	// distress threshold.
	CoverageIncome
	// CoverageCredit pays the holder's outstanding debt under balance distress.
	CoverageCredit
)

// AllCoverageTypes lists every coverage type in a fixed order.
func AllCoverageTypes() [3]CoverageType {
	return [3]CoverageType{CoverageCrisis, CoverageIncome, CoverageCredit}
}

// String returns the coverage type name.
func (c CoverageType) String() string {
	switch c {
	case CoverageCrisis:
		return "Crisis"
	case CoverageIncome:
		return "Income"
	case CoverageCredit:
		return "Credit"
	}
	return "Unknown"
}

// Policy is one insurance contract. A person holds at most one active policy
// per coverage type, and each policy pays at most one claim.
type Policy struct {
	ID             int          `json:"id"`
	HolderID       int          `json:"holder_id"`
	Coverage       CoverageType `json:"coverage"`
	CoverageAmount float64      `json:"coverage_amount"`
	Premium        float64      `json:"premium"`
	IssuedAt       int          `json:"issued_at"`
	Duration       int          `json:"duration"` // 0 means no expiry
	Claimed        bool         `json:"claimed"`
}

// NewPolicy issues a policy at the given step.
func NewPolicy(id, holder int, coverage CoverageType, amount, premium float64, issuedAt, duration int) *Policy {
	return &Policy{
		ID:             id,
		HolderID:       holder,
		Coverage:       coverage,
		CoverageAmount: amount,
		Premium:        premium,
		IssuedAt:       issuedAt,
		Duration:       duration,
	}
}

// IsActive reports whether the policy is in force at a step. Duration 0 means
// the policy never expires.
func (p *Policy) IsActive(currentStep int) bool {
	if p.Claimed {
		return false
	}
	if p.Duration == 0 {
		return true
	}
	return currentStep < p.IssuedAt+p.Duration
}

// InsuranceStats summarizes insurance activity across a run.
type InsuranceStats struct {
	PoliciesIssued    int     `json:"policies_issued"`
	PoliciesExpired   int     `json:"policies_expired"`
	ClaimsPaid        int     `json:"claims_paid"`
	PremiumsCollected float64 `json:"premiums_collected"`
	PayoutsTotal      float64 `json:"payouts_total"`
}
