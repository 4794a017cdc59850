package taxlot

import (
	"log"
	"sort"
)

// washWindowDays is the reach of the wash-sale window on each side of the
// sale date, inclusive.
const washWindowDays = 30

// washAnalyzer scans loss sales for triggering purchases inside the 61-day
// window and propagates the disallowed loss into the basis of the triggers.
// It works on the pre-built lots of the whole history, not the replay
// inventory, because a trigger can be a purchase up to 30 days after the
// sale, whose lot the inventory has not registered yet.
type washAnalyzer struct {
	all    []*lot // every lot of the history, in event order
	groups *washGroups
}

// analyze inspects a freshly produced sale item. On a loss it walks the
// eligible triggering lots, oldest acquisition first per the IRS
// first-shares-bought rule, allocating disallowed loss share by share. Each
// triggering lot receives the allocated amount as added basis, which follows
// the lot for all of its future sales. Lots consumed by the sale itself are
// not triggers.
func (a *washAnalyzer) analyze(item *SaleItem, source map[*lot]bool) {
	gain := item.Gain()
	if !gain.IsNegative() {
		return
	}

	candidates := a.candidates(item, source)
	if len(candidates) == 0 {
		return
	}

	lossAbs := gain.Abs()
	perShare := item.GainPerShare().Abs()
	unallocated := item.Shares
	disallowed := M(0, USD)

	for _, cand := range candidates {
		if unallocated.IsZero() {
			break
		}
		avail := cand.washAvailable()
		if !avail.IsPositive() {
			continue
		}
		shares := unallocated.Min(avail)

		var amount Money
		if shares.Equal(unallocated) {
			// Last allocation: close the remainder exactly so the
			// total disallowed equals the full loss, free of
			// per-share division dust.
			amount = lossAbs.Sub(disallowed)
		} else {
			amount = perShare.Mul(shares)
		}

		cand.addedBasis = cand.addedBasis.Add(amount)
		cand.washed = cand.washed.Add(shares)
		disallowed = disallowed.Add(amount)
		unallocated = unallocated.Sub(shares)

		log.Printf("wash sale: %s sold %s on %s, trigger buy of %s on %s disallows %s",
			item.Ticker, item.Shares, item.DateSold, cand.ticker, cand.acquired, amount)
	}

	if disallowed.IsPositive() {
		item.Wash = true
		item.Disallowed = disallowed
	}
}

// candidates returns the eligible triggering lots for the sale item, across
// every brokerage and every ticker of the sold ticker's equivalence class,
// ordered by acquisition date ascending. Ties keep event order, for
// deterministic replays.
func (a *washAnalyzer) candidates(item *SaleItem, source map[*lot]bool) []*lot {
	from := item.DateSold.Add(-washWindowDays)
	to := item.DateSold.Add(washWindowDays)

	var lots []*lot
	for _, l := range a.all {
		if l.noWash || source[l] {
			continue
		}
		if !a.groups.matches(item.Ticker, l.ticker) {
			continue
		}
		if l.acquired.Before(from) || l.acquired.After(to) {
			continue
		}
		if !l.washAvailable().IsPositive() {
			continue
		}
		lots = append(lots, l)
	}
	sort.SliceStable(lots, func(i, j int) bool {
		return lots[i].acquired.Before(lots[j].acquired)
	})
	return lots
}
