package economy

// Resource enumerates the environmental resources consumed by trade.
type Resource uint8

const (
	ResourceEnergy Resource = iota
	ResourceWater
	ResourceMaterials
	ResourceLand
)

// AllResources lists every resource in a fixed order.
func AllResources() [4]Resource {
	return [4]Resource{ResourceEnergy, ResourceWater, ResourceMaterials, ResourceLand}
}

// String returns the resource name.
func (r Resource) String() string {
	switch r {
	case ResourceEnergy:
		return "Energy"
	case ResourceWater:
		return "Water"
	case ResourceMaterials:
		return "Materials"
	case ResourceLand:
		return "Land"
	}
	return "Unknown"
}

// Environment is the resource-reserve ledger. Consumption only accumulates;
// it never resets except by constructing a fresh Environment.
type Environment struct {
	TotalConsumption map[Resource]float64 `json:"total_consumption"`
	ResourceReserves map[Resource]float64 `json:"resource_reserves"`
	CurrentStep      int                  `json:"current_step"`
}

// NewEnvironment creates an environment with the given reserves and zero
// consumption.
func NewEnvironment(reserves map[Resource]float64) *Environment {
	consumption := make(map[Resource]float64, len(AllResources()))
	for _, r := range AllResources() {
		consumption[r] = 0
	}
	return &Environment{
		TotalConsumption: consumption,
		ResourceReserves: reserves,
	}
}

// NewEnvironmentWithDefaults creates an environment with the standard
// reserves: 100k energy/water/materials and 10k land.
func NewEnvironmentWithDefaults() *Environment {
	return NewEnvironment(map[Resource]float64{
		ResourceEnergy:    100_000,
		ResourceWater:     100_000,
		ResourceMaterials: 100_000,
		ResourceLand:      10_000,
	})
}

// Consume records resource consumption from one economic transaction.
func (e *Environment) Consume(costs map[Resource]float64) {
	for r, amount := range costs {
		e.TotalConsumption[r] += amount
	}
}

// Step advances the environment's step counter.
func (e *Environment) Step() {
	e.CurrentStep++
}

// SustainabilityScores returns 1 − consumption/reserves per resource; 0 when
// reserves are non-positive. Scores may go negative under overconsumption but
// are never undefined.
func (e *Environment) SustainabilityScores() map[Resource]float64 {
	scores := make(map[Resource]float64, len(AllResources()))
	for _, r := range AllResources() {
		reserves := e.ResourceReserves[r]
		if reserves > 0 {
			scores[r] = 1.0 - e.TotalConsumption[r]/reserves
		} else {
			scores[r] = 0
		}
	}
	return scores
}

// OverallSustainability averages the per-resource scores.
func (e *Environment) OverallSustainability() float64 {
	scores := e.SustainabilityScores()
	sum := 0.0
	for _, r := range AllResources() {
		sum += scores[r]
	}
	return sum / float64(len(scores))
}

// IsSustainable reports whether no resource has been depleted.
func (e *Environment) IsSustainable() bool {
	for _, score := range e.SustainabilityScores() {
		if score < 0 {
			return false
		}
	}
	return true
}

// RemainingReserves returns reserves minus consumption for one resource;
// negative when overconsumed.
func (e *Environment) RemainingReserves(r Resource) float64 {
	return e.ResourceReserves[r] - e.TotalConsumption[r]
}
