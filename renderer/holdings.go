package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// HoldingsMarkdown renders a holdings report to a markdown string. Positions
// without a market quote only show their cost basis.
func HoldingsMarkdown(report *taxlot.HoldingsReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Holdings Report on %s\n\n", report.On)

	if len(report.Positions) == 0 {
		fmt.Fprintln(&b, "No open positions.")
		return b.String()
	}

	fmt.Fprint(&b, "## Positions\n\n")
	fmt.Fprintln(&b, "| Brokerage | Ticker | Shares | Cost Basis | Added Basis | Quote | Market Value | Unrealized |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|---:|---:|---:|")
	for _, position := range report.Positions {
		quote, marketValue, unrealized := "", "", ""
		if position.HasMarketValue {
			quote = position.Quote.String()
			marketValue = position.MarketValue.String()
			unrealized = position.UnrealizedGain.SignedString()
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			position.Brokerage,
			position.Ticker,
			position.Shares,
			position.CostBasis,
			position.AddedBasis.SignedString(),
			quote,
			marketValue,
			unrealized,
		)
	}

	fmt.Fprint(&b, "\n## Lots\n\n")
	fmt.Fprintln(&b, "| Brokerage | Ticker | Lot | Acquired | Shares | Price | Cost Basis |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|---:|---:|---:|")
	for _, position := range report.Positions {
		for _, lot := range position.Lots {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				lot.Brokerage,
				lot.Ticker,
				lot.LotID,
				lot.Acquired,
				lot.Shares,
				lot.Price,
				lot.CostBasis,
			)
		}
	}

	fmt.Fprintf(&b, "\n**Total cost basis:** %s\n", report.CostBasis)
	if !report.MarketValue.IsZero() {
		fmt.Fprintf(&b, "**Total market value:** %s (%s unrealized)\n",
			report.MarketValue, report.Unrealized.SignedString())
	}

	return b.String()
}
