package taxlot

import (
	"fmt"
	"iter"
	"sort"
)

// Ledger represents the list of events of one tax history.
//
// In a Ledger events are always in chronological order; events sharing a
// date keep their original input order, a tie-break that tax outcomes are
// sensitive to.
type Ledger struct {
	events []Event
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{events: make([]Event, 0)}
}

// Append appends events to this ledger and maintains the chronological order
// of events.
func (l *Ledger) Append(events ...Event) {
	l.events = append(l.events, events...)
	l.stableSort()
}

// stableSort sorts the ledger by event date. The sort is stable, meaning
// events on the same day maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.events, func(i, j int) bool {
		return l.events[i].When().Before(l.events[j].When())
	})
}

// Len returns the number of events in the ledger.
func (l *Ledger) Len() int { return len(l.events) }

// Events returns an iterator that yields each event in chronological order.
func (l *Ledger) Events() iter.Seq2[int, Event] {
	return func(yield func(int, Event) bool) {
		for i, ev := range l.events {
			if !yield(i, ev) {
				return
			}
		}
	}
}

// ApplyCommand parses a raw command string (e.g. "!SPLIT#TSLA#3#2022-08-25")
// and appends the resulting event to the ledger. Results are only trusted
// after the next Replay: the engine does not recompute incrementally.
func (l *Ledger) ApplyCommand(raw string) error {
	ev, err := ParseCommand(raw)
	if err != nil {
		return err
	}
	l.Append(ev)
	return nil
}

// Result is the outcome of a replay: the sale items in emission order and
// the residual open-lot holdings.
type Result struct {
	Sales    []SaleItem
	Holdings []Holding
}

// Replay processes the whole event history in chronological order and
// returns the resulting sale items and holdings. Replays are deterministic
// and idempotent: the same ledger always produces the identical result. Any
// error aborts the replay; there is no partial-success mode, so no partial
// state is ever visible to the caller.
func (l *Ledger) Replay() (*Result, error) {
	// First pass: reject malformed events, index the position-independent
	// declarations (wash groups, split schedule), and materialize every buy
	// lot. Lots exist before the replay starts because wash-sale analysis
	// must see replacement purchases up to 30 days after a sale.
	groups := newWashGroups()
	lots := make(map[int]*lot)
	var all []*lot
	for i, ev := range l.events {
		if _, err := ev.Validate(); err != nil {
			return nil, fmt.Errorf("event %d (%s %s): %w", i, ev.What(), ev.When(), err)
		}
		switch t := ev.(type) {
		case WashGroup:
			groups.declare(t.Tickers)
		case Buy:
			l := newLot(t)
			lots[i] = l
			all = append(all, l)
		}
	}
	schedule, err := buildSplitSchedule(l.events)
	if err != nil {
		return nil, err
	}

	// Second pass: strict chronological replay.
	r := &replay{
		inv:      newInventory(),
		analyzer: &washAnalyzer{all: all, groups: groups},
		lots:     lots,
		schedule: schedule,
		applied:  make(map[string]int),
	}
	for i, ev := range l.events {
		if err := r.dispatch(i, ev); err != nil {
			return nil, fmt.Errorf("event %d (%s %s): %w", i, ev.What(), ev.When(), err)
		}
	}
	return &Result{Sales: r.sales, Holdings: r.inv.holdings()}, nil
}

// Rebuild is a full re-replay of the event history. It is the only way to
// refresh results after ApplyCommand; see Replay for the guarantees.
func (l *Ledger) Rebuild() (*Result, error) { return l.Replay() }

// replay owns all mutable state of one pass: the lot inventory and the sale
// items accumulated so far. It is strictly sequential.
type replay struct {
	inv      *inventory
	analyzer *washAnalyzer
	lots     map[int]*lot  // pre-built lot of each buy event, by event index
	schedule splitSchedule // date-ordered splits per ticker
	applied  map[string]int
	sales    []SaleItem
}

func (r *replay) dispatch(i int, ev Event) error {
	switch t := ev.(type) {
	case Buy:
		return r.addLot(r.lots[i])
	case Sell:
		return r.sell(t)
	case Split:
		r.inv.applySplit(t.Ticker, t.Factor, t.Date)
		r.applied[t.Ticker]++
		return nil
	case Liquidate:
		return r.liquidate(t)
	case WashGroup:
		return nil // registered before replay
	default:
		return fmt.Errorf("unsupported event type %T", ev)
	}
}

// addLot registers a buy lot and catches up any split of its ticker already
// dispatched. Splits apply by date, not file position: a buy recorded after a
// same-day split line still gets rescaled.
func (r *replay) addLot(l *lot) error {
	if err := r.inv.addLot(l); err != nil {
		return err
	}
	for _, term := range r.schedule[l.ticker][:r.applied[l.ticker]] {
		if !l.acquired.After(term.Date) {
			l.split(term.Factor)
		}
	}
	return nil
}

// sell matches the sale against the inventory and runs the wash-sale
// analyzer over every loss item before committing them.
func (r *replay) sell(t Sell) error {
	items, consumed, err := r.inv.matchSell(t)
	if err != nil {
		return err
	}

	source := make(map[*lot]bool, len(consumed))
	for _, l := range consumed {
		source[l] = true
	}
	for i := range items {
		r.analyzer.analyze(&items[i], source)
	}

	r.sales = append(r.sales, items...)
	return nil
}

// liquidate expands a global liquidation into one synthetic full-position
// sell per brokerage holding the ticker, in lexicographic brokerage order.
func (r *replay) liquidate(t Liquidate) error {
	brokerages := r.inv.brokeragesHolding(t.Ticker)
	if len(brokerages) == 0 {
		return &OutOfOrderLiquidationError{Ticker: t.Ticker, Date: t.Date}
	}
	for _, brokerage := range brokerages {
		shares := r.inv.book(brokerage, t.Ticker).openShares()
		if err := r.sell(NewSell(t.Date, brokerage, t.Ticker, shares, t.Payout)); err != nil {
			return err
		}
	}
	return nil
}
