package economy

import "fmt"

// SkillID identifies a tradeable skill. Persons and trades reference skills
// by id only, never by pointer, so the market stays the single owner.
type SkillID string

// Skill is a tradeable good/service type with a market price.
type Skill struct {
	ID           SkillID `json:"id"`
	Name         string  `json:"name"`
	BasePrice    float64 `json:"base_price"`
	CurrentPrice float64 `json:"current_price"`
}

// NewSkill creates a skill priced at its base price.
func NewSkill(id SkillID, name string, basePrice float64) *Skill {
	return &Skill{
		ID:           id,
		Name:         name,
		BasePrice:    basePrice,
		CurrentPrice: basePrice,
	}
}

// DeterministicSkillID builds a stable id from an ordinal, so that skill ids
// in action logs are identical across runs with the same configuration.
func DeterministicSkillID(n int) SkillID {
	return SkillID(fmt.Sprintf("skill-%04d", n))
}
