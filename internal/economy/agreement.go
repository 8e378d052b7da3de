package economy

// TradeAgreement is a standing discount contract between two or more persons.
// It never mutates itself after expiry; the engine garbage-collects expired
// agreements and reads them only for statistics.
type TradeAgreement struct {
	ID              int     `json:"id"`
	PartnerIDs      []int   `json:"partner_ids"`
	DiscountRate    float64 `json:"discount_rate"`
	CreatedAt       int     `json:"created_at"`
	Duration        int     `json:"duration"`
	TradeCount      int     `json:"trade_count"`
	TotalTradeValue float64 `json:"total_trade_value"`
}

// NewBilateralAgreement creates a two-party agreement starting at the given
// step.
func NewBilateralAgreement(id, a, b int, discount float64, createdAt, duration int) *TradeAgreement {
	return &TradeAgreement{
		ID:           id,
		PartnerIDs:   []int{a, b},
		DiscountRate: discount,
		CreatedAt:    createdAt,
		Duration:     duration,
	}
}

// IsActive reports whether the agreement is still in force at a step.
func (t *TradeAgreement) IsActive(currentStep int) bool {
	return currentStep < t.CreatedAt+t.Duration
}

// IncludesBoth reports whether both persons are partners.
func (t *TradeAgreement) IncludesBoth(a, b int) bool {
	return t.includes(a) && t.includes(b)
}

func (t *TradeAgreement) includes(id int) bool {
	for _, p := range t.PartnerIDs {
		if p == id {
			return true
		}
	}
	return false
}

// DiscountedPrice applies the agreement's discount to a price.
func (t *TradeAgreement) DiscountedPrice(price float64) float64 {
	return price * (1.0 - t.DiscountRate)
}

// RecordTrade updates the agreement's counters. Called only on successful
// trades, never on failed ones.
func (t *TradeAgreement) RecordTrade(value float64) {
	t.TradeCount++
	t.TotalTradeValue += value
}

// AgreementStats summarizes agreement activity across a run.
type AgreementStats struct {
	TotalFormed     int     `json:"total_formed"`
	TotalExpired    int     `json:"total_expired"`
	ActiveCount     int     `json:"active_count"`
	TotalTrades     int     `json:"total_trades"`
	TotalTradeValue float64 `json:"total_trade_value"`
}
