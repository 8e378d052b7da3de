package economy

import (
	"fmt"
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// AuctionType enumerates supported auction formats.
type AuctionType uint8

const (
	// AuctionEnglish is an open ascending-price auction; the highest bid wins.
	AuctionEnglish AuctionType = iota
)

// Auction holds a single round of sealed bids for one skill. Non-finite bids
// are rejected at insertion, never silently dropped at resolution. Equal
// maximal bids resolve to the lowest bidder id, keeping resolution
// deterministic.
type Auction struct {
	SkillID SkillID
	Type    AuctionType
	bids    map[int]float64
}

// NewAuction creates an empty auction round for a skill.
func NewAuction(skillID SkillID, typ AuctionType) *Auction {
	return &Auction{
		SkillID: skillID,
		Type:    typ,
		bids:    make(map[int]float64),
	}
}

// AddBid records a bid for a person. A NaN or infinite bid is a construction
// bug in the caller and panics.
func (a *Auction) AddBid(personID int, amount float64) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		panic(fmt.Sprintf("auction: non-finite bid %v from person %d", amount, personID))
	}
	a.bids[personID] = amount
}

// BidCount returns the number of recorded bids.
func (a *Auction) BidCount() int {
	return len(a.bids)
}

// Resolve returns the winning bidder and bid, or ok=false when no bids exist.
func (a *Auction) Resolve() (winner int, bid float64, ok bool) {
	if len(a.bids) == 0 {
		return 0, 0, false
	}

	bidders := maps.Keys(a.bids)
	slices.Sort(bidders)

	winner = bidders[0]
	bid = a.bids[winner]
	for _, id := range bidders[1:] {
		if a.bids[id] > bid {
			winner = id
			bid = a.bids[id]
		}
	}
	return winner, bid, true
}

// ClearBids resets the round for reuse across steps or skills.
func (a *Auction) ClearBids() {
	for id := range a.bids {
		delete(a.bids, id)
	}
}
