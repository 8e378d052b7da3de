package economy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectTax(t *testing.T) {
	gov := NewGovernment(0.1, true)

	tax := gov.CollectTax(100.0)
	assert.InDelta(t, 10.0, tax, 1e-9)
	assert.InDelta(t, 10.0, gov.TotalCollected, 1e-9)
}

func TestAddTaxDeposits(t *testing.T) {
	gov := NewGovernment(0.1, true)
	gov.AddTax(5.0)
	gov.AddTax(2.5)

	assert.InDelta(t, 7.5, gov.TotalCollected, 1e-9)
}

func TestRedistributeSweepsTreasury(t *testing.T) {
	gov := NewGovernment(0.1, true)
	gov.CollectTax(100.0)

	share := gov.Redistribute(5)
	assert.InDelta(t, 2.0, share, 1e-9)
	assert.Equal(t, 0.0, gov.TotalCollected)
	assert.InDelta(t, 10.0, gov.TotalRedistributed, 1e-9)
}

func TestRedistributeNoOps(t *testing.T) {
	gov := NewGovernment(0.1, true)
	gov.CollectTax(100.0)

	// No persons: nothing moves.
	assert.Equal(t, 0.0, gov.Redistribute(0))
	assert.InDelta(t, 10.0, gov.TotalCollected, 1e-9)

	// Empty treasury after a sweep: nothing moves.
	gov.Redistribute(5)
	assert.Equal(t, 0.0, gov.Redistribute(5))
	assert.InDelta(t, 10.0, gov.TotalRedistributed, 1e-9)
}

func TestRedistributeDisabled(t *testing.T) {
	gov := NewGovernment(0.1, false)
	gov.CollectTax(100.0)

	assert.Equal(t, 0.0, gov.Redistribute(5))
	assert.InDelta(t, 10.0, gov.TotalCollected, 1e-9)
}

func TestGovernmentReset(t *testing.T) {
	gov := NewGovernment(0.1, true)
	gov.CollectTax(50.0)
	gov.Redistribute(2)
	gov.Reset()

	assert.Equal(t, 0.0, gov.TotalCollected)
	assert.Equal(t, 0.0, gov.TotalRedistributed)
}
