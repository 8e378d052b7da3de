package economy

// Government is the tax collection and redistribution ledger. Redistribution
// is all-or-nothing: the whole treasury is swept evenly across persons, never
// dribbled out partially.
type Government struct {
	TaxRate              float64 `json:"tax_rate"`
	TotalCollected       float64 `json:"total_collected"`
	TotalRedistributed   float64 `json:"total_redistributed"`
	RedistributionActive bool    `json:"redistribution_active"`
}

// NewGovernment creates a government with the given tax rate in [0, 1].
func NewGovernment(taxRate float64, redistribute bool) *Government {
	return &Government{
		TaxRate:              taxRate,
		RedistributionActive: redistribute,
	}
}

// CollectTax returns the tax owed on an amount and adds it to the treasury.
func (g *Government) CollectTax(amount float64) float64 {
	tax := amount * g.TaxRate
	g.TotalCollected += tax
	return tax
}

// AddTax deposits an externally computed tax amount into the treasury.
func (g *Government) AddTax(amount float64) {
	g.TotalCollected += amount
}

// Redistribute sweeps the treasury evenly across numPersons and returns the
// per-person share. Returns 0 with no side effects when redistribution is
// disabled, there are no persons, or the treasury is empty.
func (g *Government) Redistribute(numPersons int) float64 {
	if !g.RedistributionActive || numPersons <= 0 || g.TotalCollected <= 0 {
		return 0
	}

	share := g.TotalCollected / float64(numPersons)
	g.TotalRedistributed += g.TotalCollected
	g.TotalCollected = 0
	return share
}

// Reset zeroes both running totals.
func (g *Government) Reset() {
	g.TotalCollected = 0
	g.TotalRedistributed = 0
}
