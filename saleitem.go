package taxlot

import (
	"github.com/etnz/taxlot/date"
)

// shortTermDays is the holding period below which a sale is short term.
const shortTermDays = 366

// SaleItem is one completed sale against one consumed lot. A sell spanning
// several lots emits several sale items, because basis, acquisition date and
// the long/short-term character differ per lot. Sale items are immutable once
// the replay ends.
type SaleItem struct {
	Brokerage    string
	Ticker       string
	SalePrice    Money // per share
	Shares       Quantity
	DateAcquired date.Date
	DateSold     date.Date
	CostBasis    Money
	ShortTerm    bool
	Wash         bool
	Commission   Money // only the first sale item of a sell carries the commission
	Disallowed   Money // disallowed wash loss, reported separately, never netted into the gain
	LotID        string
}

func newSaleItem(sell Sell, l *lot, shares Quantity, acquired date.Date, basis, commission Money) SaleItem {
	return SaleItem{
		Brokerage:    sell.Brokerage,
		Ticker:       sell.Ticker,
		SalePrice:    sell.Price,
		Shares:       shares,
		DateAcquired: acquired,
		DateSold:     sell.Date,
		CostBasis:    basis,
		ShortTerm:    sell.Date.Sub(acquired) < shortTermDays,
		Commission:   commission,
		LotID:        l.id,
	}
}

// NetProceeds returns the proceeds from the sale minus the commission.
func (s SaleItem) NetProceeds() Money {
	return s.SalePrice.Mul(s.Shares).Sub(s.Commission)
}

// Gain returns the gain (positive) or loss (negative) for this sale. Wash
// disallowance does not change the gain; see AllowedLoss.
func (s SaleItem) Gain() Money {
	return s.NetProceeds().Sub(s.CostBasis)
}

// GainPerShare returns the gain or loss per share sold.
func (s SaleItem) GainPerShare() Money {
	return s.Gain().Div(s.Shares)
}

// AllowedLoss returns the magnitude of the loss still allowed after wash
// disallowance. It is zero unless the sale is a wash loss.
func (s SaleItem) AllowedLoss() Money {
	if !s.Wash || !s.Gain().IsNegative() {
		return M(0, s.SalePrice.Currency())
	}
	return s.Gain().Abs().Sub(s.Disallowed)
}

// MarshalJSON implements the json.Marshaler interface, including the derived
// fields, for report serialization.
func (s SaleItem) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("brokerage", s.Brokerage)
	w.Append("ticker", s.Ticker)
	w.Append("sale_price", s.SalePrice)
	w.Append("shares", s.Shares)
	w.Append("date_acquired", s.DateAcquired)
	w.Append("date_sold", s.DateSold)
	w.Append("cost_basis", s.CostBasis)
	w.Append("short_term", s.ShortTerm)
	w.Append("wash", s.Wash)
	w.Append("commission", s.Commission)
	w.Append("disallowed_wash_loss", s.Disallowed)
	w.Append("net_proceeds", s.NetProceeds())
	w.Append("gain", s.Gain())
	w.Append("gain_per_share", s.GainPerShare())
	w.Append("allowed_loss", s.AllowedLoss())
	w.Optional("lot", s.LotID)
	return w.MarshalJSON()
}
