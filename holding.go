package taxlot

import (
	"sort"

	"github.com/etnz/taxlot/date"
)

// Holding is the snapshot of one open lot at the end of a replay.
type Holding struct {
	Brokerage  string
	Ticker     string
	LotID      string
	Acquired   date.Date
	Shares     Quantity
	Price      Money // per share, split-adjusted
	CostBasis  Money // shares times price plus added basis
	AddedBasis Money
}

// MarshalJSON implements the json.Marshaler interface for Holding.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("brokerage", h.Brokerage)
	w.Append("ticker", h.Ticker)
	w.Optional("lot", h.LotID)
	w.Append("date_acquired", h.Acquired)
	w.Append("shares", h.Shares)
	w.Append("price", h.Price)
	w.Append("cost_basis", h.CostBasis)
	w.Append("added_basis", h.AddedBasis)
	return w.MarshalJSON()
}

// holdings snapshots every open lot, grouped by brokerage then ticker then
// acquisition order.
func (v *inventory) holdings() []Holding {
	var out []Holding
	for _, brokerage := range v.brokerages() {
		tickers := v.books[brokerage]
		names := make([]string, 0, len(tickers))
		for name := range tickers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, l := range tickers[name].lots {
				if !l.open() {
					continue
				}
				out = append(out, Holding{
					Brokerage:  brokerage,
					Ticker:     name,
					LotID:      l.id,
					Acquired:   l.acquired,
					Shares:     l.remaining,
					Price:      l.price,
					CostBasis:  l.costBasis(),
					AddedBasis: l.addedBasis,
				})
			}
		}
	}
	return out
}

// Position is the aggregated holding of one ticker at one brokerage.
type Position struct {
	Brokerage  string
	Ticker     string
	Shares     Quantity
	CostBasis  Money
	AddedBasis Money
	Lots       []Holding
}

// GroupHoldings aggregates per-lot holdings into per (brokerage, ticker)
// positions, preserving the brokerage-then-ticker order.
func GroupHoldings(holdings []Holding) []Position {
	var out []Position
	for _, h := range holdings {
		n := len(out)
		if n == 0 || out[n-1].Brokerage != h.Brokerage || out[n-1].Ticker != h.Ticker {
			out = append(out, Position{Brokerage: h.Brokerage, Ticker: h.Ticker})
			n++
		}
		p := &out[n-1]
		p.Shares = p.Shares.Add(h.Shares)
		p.CostBasis = p.CostBasis.Add(h.CostBasis)
		p.AddedBasis = p.AddedBasis.Add(h.AddedBasis)
		p.Lots = append(p.Lots, h)
	}
	return out
}
