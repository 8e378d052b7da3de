package economy

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuctionResolveHighestBid(t *testing.T) {
	a := NewAuction("skill-0001", AuctionEnglish)
	a.AddBid(1, 50.0)
	a.AddBid(2, 75.0)
	a.AddBid(3, 60.0)

	winner, bid, ok := a.Resolve()
	assert.True(t, ok)
	assert.Equal(t, 2, winner)
	assert.Equal(t, 75.0, bid)
}

func TestAuctionResolveNoBids(t *testing.T) {
	a := NewAuction("skill-0001", AuctionEnglish)
	_, _, ok := a.Resolve()
	assert.False(t, ok)
}

func TestAuctionTieBreaksToLowestID(t *testing.T) {
	a := NewAuction("skill-0001", AuctionEnglish)
	a.AddBid(9, 80.0)
	a.AddBid(3, 80.0)
	a.AddBid(5, 80.0)

	winner, bid, ok := a.Resolve()
	assert.True(t, ok)
	assert.Equal(t, 3, winner)
	assert.Equal(t, 80.0, bid)
}

func TestAuctionRejectsNonFiniteBids(t *testing.T) {
	a := NewAuction("skill-0001", AuctionEnglish)

	assert.Panics(t, func() { a.AddBid(1, math.NaN()) })
	assert.Panics(t, func() { a.AddBid(1, math.Inf(1)) })
	assert.Panics(t, func() { a.AddBid(1, math.Inf(-1)) })
	assert.Equal(t, 0, a.BidCount())
}

func TestAuctionClearBids(t *testing.T) {
	a := NewAuction("skill-0001", AuctionEnglish)
	a.AddBid(1, 10.0)
	a.ClearBids()

	assert.Equal(t, 0, a.BidCount())
	_, _, ok := a.Resolve()
	assert.False(t, ok)
}
