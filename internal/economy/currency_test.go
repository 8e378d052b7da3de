package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrencyRoundTrip(t *testing.T) {
	cs := NewCurrencySystem()
	cs.Add(NewCurrency("USD", "US Dollar", 1.1))
	cs.Add(NewCurrency("JPY", "Yen", 0.0071))

	amount := 123.45
	toYen, err := cs.Convert(amount, "USD", "JPY")
	require.NoError(t, err)
	back, err := cs.Convert(toYen, "JPY", "USD")
	require.NoError(t, err)

	assert.InDelta(t, amount, back, 1e-9)
}

func TestCurrencyConvertThroughBase(t *testing.T) {
	cs := NewCurrencySystem()
	cs.Add(NewCurrency("A", "Alpha", 2.0))

	// 10 A = 5 base units.
	got, err := cs.Convert(10.0, "A", BaseCurrencyID)
	require.NoError(t, err)
	assert.InDelta(t, 5.0, got, 1e-9)
}

func TestCurrencyUnknownID(t *testing.T) {
	cs := NewCurrencySystem()
	_, err := cs.Convert(1.0, "NOPE", BaseCurrencyID)
	assert.Error(t, err)
	_, err = cs.Convert(1.0, BaseCurrencyID, "NOPE")
	assert.Error(t, err)
}

func TestCurrencyNonPositiveRatePanics(t *testing.T) {
	assert.Panics(t, func() { NewCurrency("X", "X", 0) })
	assert.Panics(t, func() { NewCurrency("X", "X", -1.5) })
}

func TestBaseCurrencyAlwaysPresent(t *testing.T) {
	cs := NewCurrencySystem()
	base, ok := cs.Get(BaseCurrencyID)
	require.True(t, ok)
	assert.Equal(t, 1.0, base.ExchangeRate)
}
