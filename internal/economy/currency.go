package economy

import "fmt"

// BaseCurrencyID is the pivot currency every conversion routes through.
const BaseCurrencyID = "BASE"

// Currency is one entry in the exchange-rate registry. The rate is expressed
// relative to the base currency and must be positive.
type Currency struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ExchangeRate float64 `json:"exchange_rate"`
}

// NewCurrency creates a currency. A non-positive rate makes the registry
// meaningless and panics.
func NewCurrency(id, name string, rate float64) Currency {
	if rate <= 0 {
		panic(fmt.Sprintf("currency %q: exchange rate must be positive, got %v", id, rate))
	}
	return Currency{ID: id, Name: name, ExchangeRate: rate}
}

// CurrencySystem maps currency ids to exchange rates. The base currency is
// always present with rate 1.0.
type CurrencySystem struct {
	currencies map[string]Currency
}

// NewCurrencySystem creates a registry seeded with the base currency.
func NewCurrencySystem() *CurrencySystem {
	cs := &CurrencySystem{currencies: make(map[string]Currency)}
	cs.currencies[BaseCurrencyID] = NewCurrency(BaseCurrencyID, "Base Currency", 1.0)
	return cs
}

// Add registers a currency, replacing any existing entry with the same id.
func (cs *CurrencySystem) Add(c Currency) {
	cs.currencies[c.ID] = c
}

// Get returns the currency for an id.
func (cs *CurrencySystem) Get(id string) (Currency, bool) {
	c, ok := cs.currencies[id]
	return c, ok
}

// Convert routes an amount from one currency to another through the base
// currency: amount / from.rate * to.rate.
func (cs *CurrencySystem) Convert(amount float64, fromID, toID string) (float64, error) {
	from, ok := cs.currencies[fromID]
	if !ok {
		return 0, fmt.Errorf("convert: unknown currency %q", fromID)
	}
	to, ok := cs.currencies[toID]
	if !ok {
		return 0, fmt.Errorf("convert: unknown currency %q", toID)
	}
	return amount / from.ExchangeRate * to.ExchangeRate, nil
}
