package taxlot

import (
	"fmt"

	"github.com/etnz/taxlot/date"
)

// Replay failures are deterministic: they describe bad input, not transient
// conditions, and they abort the whole replay. Each error carries enough
// context (date, brokerage, ticker) to locate the offending line.

// DuplicateLotIDError reports a Buy that reuses a lot id already registered
// for the same brokerage and ticker.
type DuplicateLotIDError struct {
	Brokerage string
	Ticker    string
	LotID     string
}

func (e *DuplicateLotIDError) Error() string {
	return fmt.Sprintf("duplicate lot id %q for %s at %s", e.LotID, e.Ticker, e.Brokerage)
}

// UnknownLotIDError reports a Sell that names a lot id never registered for
// its brokerage and ticker.
type UnknownLotIDError struct {
	Brokerage string
	Ticker    string
	LotID     string
}

func (e *UnknownLotIDError) Error() string {
	return fmt.Sprintf("unknown lot id %q for %s at %s", e.LotID, e.Ticker, e.Brokerage)
}

// InsufficientSharesError reports a Sell that cannot be satisfied by the
// selected lots. No partial sale is emitted.
type InsufficientSharesError struct {
	Brokerage string
	Ticker    string
	Requested Quantity
	Available Quantity
}

func (e *InsufficientSharesError) Error() string {
	return fmt.Sprintf("insufficient shares to sell %s %s at %s: only %s available",
		e.Requested, e.Ticker, e.Brokerage, e.Available)
}

// OutOfOrderLiquidationError reports a Liquidate that finds no open lot in
// any brokerage at its replay position, which means it is chronologically
// inconsistent with the surrounding events.
type OutOfOrderLiquidationError struct {
	Ticker string
	Date   date.Date
}

func (e *OutOfOrderLiquidationError) Error() string {
	return fmt.Sprintf("liquidation of %s on %s matches no open lot in any brokerage", e.Ticker, e.Date)
}
