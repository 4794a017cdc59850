package taxlot

import (
	"sort"

	"github.com/etnz/taxlot/date"
)

// lot is a single acquisition of shares with its own basis and date. A lot is
// exclusively owned by one (brokerage, ticker) book; it is never deleted,
// only exhausted, because later splits or wash-loss propagation may still
// touch it.
type lot struct {
	id        string // user-assigned lot id, empty when engine-assigned
	seq       int    // creation ordinal within the book, breaks acquisition-date ties
	brokerage string
	ticker    string

	acquired   date.Date // immutable, splits never change it
	original   Quantity
	remaining  Quantity // decreases monotonically to zero
	price      Money    // per share, rescaled by splits
	commission Money    // buy commission, folded into basis on exhaustion
	addedBasis Money    // wash disallowance and explicit adjustments, follows the remaining shares
	noWash     bool     // excluded from wash-sale trigger scans
	washed     Quantity // shares already consumed as wash-sale triggers
}

// open reports whether the lot can still be selected by a sell.
func (l *lot) open() bool { return l.remaining.IsPositive() }

// costBasis returns the basis of the remaining shares.
func (l *lot) costBasis() Money { return l.price.Mul(l.remaining).Add(l.addedBasis) }

// washAvailable returns the shares of this lot still eligible to trigger a
// wash sale. Replacement shares wash a loss only once.
func (l *lot) washAvailable() Quantity { return l.remaining.Sub(l.washed) }

// split rescales the lot in place by the given factor. The total basis
// (shares times price) is invariant under the rescale.
func (l *lot) split(factor Quantity) {
	l.remaining = l.remaining.Mul(factor)
	l.original = l.original.Mul(factor)
	l.washed = l.washed.Mul(factor)
	l.price = l.price.Div(factor)
}

// consume takes shares out of the lot and returns the basis of the consumed
// portion: the per-share price, a proportional slice of the accumulated added
// basis, and the buy commission if this consumption exhausts the lot.
func (l *lot) consume(shares Quantity) (basis Money, exhausted bool) {
	basis = l.price.Mul(shares)

	if shares.Equal(l.remaining) {
		// Take the whole residual added basis, avoiding division dust,
		// and fold in the buy commission.
		basis = basis.Add(l.addedBasis).Add(l.commission)
		l.addedBasis = M(0, l.addedBasis.Currency())
		l.remaining = Q(0)
		return basis, true
	}

	allocated := l.addedBasis.Mul(shares).Div(l.remaining)
	basis = basis.Add(allocated)
	l.addedBasis = l.addedBasis.Sub(allocated)
	l.remaining = l.remaining.Sub(shares)
	return basis, false
}

// lotBook is the ordered collection of lots of one (brokerage, ticker) pair.
// Lots stay in insertion order; exhausted lots remain for audit.
type lotBook struct {
	lots []*lot
	byID map[string]*lot
}

func newLotBook() *lotBook {
	return &lotBook{byID: make(map[string]*lot)}
}

// add appends a lot to the book. A user-assigned id must be unique within
// the book.
func (b *lotBook) add(l *lot) error {
	if l.id != "" {
		if _, dup := b.byID[l.id]; dup {
			return &DuplicateLotIDError{Brokerage: l.brokerage, Ticker: l.ticker, LotID: l.id}
		}
		b.byID[l.id] = l
	}
	l.seq = len(b.lots) + 1
	b.lots = append(b.lots, l)
	return nil
}

// openShares returns the total of remaining shares across the book.
func (b *lotBook) openShares() Quantity {
	total := Q(0)
	for _, l := range b.lots {
		total = total.Add(l.remaining)
	}
	return total
}

// selection resolves which lots a sell consumes, and in which order. The
// returned lots are candidates: the matcher walks them in order until the
// requested shares are satisfied.
type selection interface {
	selectLots(b *lotBook) ([]*lot, error)
}

// fifoSelection orders open lots by acquisition date, oldest first, ties
// broken by insertion order.
type fifoSelection struct{}

func (fifoSelection) selectLots(b *lotBook) ([]*lot, error) {
	var open []*lot
	for _, l := range b.lots {
		if l.open() {
			open = append(open, l)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		return open[i].acquired.Before(open[j].acquired)
	})
	return open, nil
}

// explicitSelection consumes exactly the named lots in the given left-to-right
// order, with no fallback to other lots.
type explicitSelection struct {
	brokerage, ticker string
	ids               []string
}

func (s explicitSelection) selectLots(b *lotBook) ([]*lot, error) {
	lots := make([]*lot, 0, len(s.ids))
	for _, id := range s.ids {
		l, ok := b.byID[id]
		if !ok {
			return nil, &UnknownLotIDError{Brokerage: s.brokerage, Ticker: s.ticker, LotID: id}
		}
		lots = append(lots, l)
	}
	return lots, nil
}

// inventory holds every lot book, keyed by brokerage then ticker. It is the
// single mutable state of a replay.
type inventory struct {
	books map[string]map[string]*lotBook
}

func newInventory() *inventory {
	return &inventory{books: make(map[string]map[string]*lotBook)}
}

// book returns the lot book for (brokerage, ticker), creating it on demand.
func (v *inventory) book(brokerage, ticker string) *lotBook {
	tickers, ok := v.books[brokerage]
	if !ok {
		tickers = make(map[string]*lotBook)
		v.books[brokerage] = tickers
	}
	b, ok := tickers[ticker]
	if !ok {
		b = newLotBook()
		tickers[ticker] = b
	}
	return b
}

// newLot materializes the lot of a buy event. Lots are created for the whole
// history before the replay starts, so that a sale can see replacement
// purchases up to 30 days in its future; the replay later registers the same
// lot in the inventory when its buy event is reached.
func newLot(t Buy) *lot {
	return &lot{
		id:         t.LotID,
		brokerage:  t.Brokerage,
		ticker:     t.Ticker,
		acquired:   t.Date,
		original:   t.Shares,
		remaining:  t.Shares,
		price:      t.Price,
		commission: t.Commission,
		addedBasis: t.AddedBasis,
		noWash:     t.NoWash,
	}
}

// addLot registers a lot in its (brokerage, ticker) book.
func (v *inventory) addLot(l *lot) error {
	return v.book(l.brokerage, l.ticker).add(l)
}

// applySplit rescales in place every lot of the ticker acquired on or before
// the split date, across all brokerages.
func (v *inventory) applySplit(ticker string, factor Quantity, day date.Date) {
	for _, tickers := range v.books {
		b, ok := tickers[ticker]
		if !ok {
			continue
		}
		for _, l := range b.lots {
			if !l.acquired.After(day) {
				l.split(factor)
			}
		}
	}
}

// brokerages returns the sorted names of all brokerages in the inventory.
func (v *inventory) brokerages() []string {
	names := make([]string, 0, len(v.books))
	for name := range v.books {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// brokeragesHolding returns the sorted names of brokerages with open lots of
// the ticker.
func (v *inventory) brokeragesHolding(ticker string) []string {
	var names []string
	for _, name := range v.brokerages() {
		if b, ok := v.books[name][ticker]; ok && b.openShares().IsPositive() {
			names = append(names, name)
		}
	}
	return names
}

// matchSell resolves a sell against the inventory and returns one sale item
// per consumed lot, together with the lots that were consumed. The inventory
// is not mutated on error: availability is checked across the selected lots
// before any consumption.
func (v *inventory) matchSell(t Sell) ([]SaleItem, []*lot, error) {
	b := v.book(t.Brokerage, t.Ticker)

	var sel selection = fifoSelection{}
	if len(t.LotIDs) > 0 {
		sel = explicitSelection{brokerage: t.Brokerage, ticker: t.Ticker, ids: t.LotIDs}
	}
	lots, err := sel.selectLots(b)
	if err != nil {
		return nil, nil, err
	}

	available := Q(0)
	for _, l := range lots {
		available = available.Add(l.remaining)
	}
	if available.LessThan(t.Shares) {
		return nil, nil, &InsufficientSharesError{
			Brokerage: t.Brokerage,
			Ticker:    t.Ticker,
			Requested: t.Shares,
			Available: available,
		}
	}

	var items []SaleItem
	var consumed []*lot
	rem := t.Shares
	for _, l := range lots {
		if rem.IsZero() {
			break
		}
		shares := rem.Min(l.remaining)
		if shares.IsZero() {
			continue // explicit schedule may name an exhausted lot
		}
		acquired := l.acquired
		basis, _ := l.consume(shares)

		// The sell commission reduces the proceeds of the first sale
		// item only, never spread across lots.
		comm := M(0, USD)
		if len(items) == 0 {
			comm = t.Commission
		}
		items = append(items, newSaleItem(t, l, shares, acquired, basis, comm))
		consumed = append(consumed, l)
		rem = rem.Sub(shares)
	}
	return items, consumed, nil
}
