package taxlot

import (
	"github.com/etnz/taxlot/date"
)

// SalesReport contains the sale items of a period with their aggregated tax
// figures.
type SalesReport struct {
	Range date.Range
	Items []SaleItem

	Proceeds     Money // net proceeds of the period
	Gain         Money // raw gain before wash-sale adjustment
	Disallowed   Money // total disallowed wash losses
	AdjustedGain Money // gain with disallowed losses added back
	ShortTerm    Money // raw gain of short-term items
	LongTerm     Money // raw gain of long-term items
}

// NewSalesReport filters the replay's sale items to the period and computes
// the report totals. Items are kept in emission order.
func NewSalesReport(result *Result, period date.Range) *SalesReport {
	report := &SalesReport{
		Range:        period,
		Proceeds:     M(0, USD),
		Gain:         M(0, USD),
		Disallowed:   M(0, USD),
		AdjustedGain: M(0, USD),
		ShortTerm:    M(0, USD),
		LongTerm:     M(0, USD),
	}
	for _, item := range result.Sales {
		if !period.Contains(item.DateSold) {
			continue
		}
		report.Items = append(report.Items, item)

		gain := item.Gain()
		report.Proceeds = report.Proceeds.Add(item.NetProceeds())
		report.Gain = report.Gain.Add(gain)
		report.Disallowed = report.Disallowed.Add(item.Disallowed)
		report.AdjustedGain = report.AdjustedGain.Add(gain).Add(item.Disallowed)
		if item.ShortTerm {
			report.ShortTerm = report.ShortTerm.Add(gain)
		} else {
			report.LongTerm = report.LongTerm.Add(gain)
		}
	}
	return report
}

// PositionValue is one holding position optionally extended with a market
// valuation.
type PositionValue struct {
	Position
	Quote          Money // last known per-share price, zero when unknown
	MarketValue    Money
	UnrealizedGain Money
	HasMarketValue bool
}

// HoldingsReport contains the residual open positions after a replay,
// optionally valued at market prices.
type HoldingsReport struct {
	On        date.Date
	Positions []PositionValue

	CostBasis   Money
	MarketValue Money // sum over the positions that have a quote
	Unrealized  Money
}

// NewHoldingsReport builds the holdings report from the replay's residual
// lots. The prices map is optional: tickers present in it get a market
// valuation, the others only report their cost basis.
func NewHoldingsReport(result *Result, on date.Date, prices map[string]Money) *HoldingsReport {
	report := &HoldingsReport{
		On:          on,
		CostBasis:   M(0, USD),
		MarketValue: M(0, USD),
		Unrealized:  M(0, USD),
	}
	for _, position := range GroupHoldings(result.Holdings) {
		pv := PositionValue{Position: position}
		report.CostBasis = report.CostBasis.Add(position.CostBasis)
		if quote, ok := prices[position.Ticker]; ok {
			pv.Quote = quote
			pv.MarketValue = quote.Mul(position.Shares)
			pv.UnrealizedGain = pv.MarketValue.Sub(position.CostBasis)
			pv.HasMarketValue = true
			report.MarketValue = report.MarketValue.Add(pv.MarketValue)
			report.Unrealized = report.Unrealized.Add(pv.UnrealizedGain)
		}
		report.Positions = append(report.Positions, pv)
	}
	return report
}
