package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// SalesMarkdown renders a sales report to a markdown string.
func SalesMarkdown(report *taxlot.SalesReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Sales Report %s\n\n", report.Range)

	if len(report.Items) == 0 {
		fmt.Fprintln(&b, "No sales in this period.")
		return b.String()
	}

	fmt.Fprint(&b, "## Sale Items\n\n")
	fmt.Fprintln(&b, "| Brokerage | Ticker | Shares | Acquired | Sold | Proceeds | Basis | Gain | Term | Wash | Disallowed |")
	fmt.Fprintln(&b, "|:---|:---|---:|:---|:---|---:|---:|---:|:---|:---:|---:|")
	for _, item := range report.Items {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s | %s | %s | %s | %s |\n",
			item.Brokerage,
			tickerWithLot(item.Ticker, item.LotID),
			item.Shares,
			item.DateAcquired,
			item.DateSold,
			item.NetProceeds(),
			item.CostBasis,
			item.Gain().SignedString(),
			term(item.ShortTerm),
			wash(item.Wash),
			item.Disallowed.SignedString(),
		)
	}

	fmt.Fprint(&b, "\n## Totals\n\n")
	fmt.Fprintln(&b, "| Proceeds | Gain | Short Term | Long Term | Disallowed | Adjusted Gain |")
	fmt.Fprintln(&b, "|---:|---:|---:|---:|---:|---:|")
	fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
		report.Proceeds,
		report.Gain.SignedString(),
		report.ShortTerm.SignedString(),
		report.LongTerm.SignedString(),
		report.Disallowed.SignedString(),
		report.AdjustedGain.SignedString(),
	)

	return b.String()
}

func tickerWithLot(ticker, lotID string) string {
	if lotID == "" {
		return ticker
	}
	return ticker + " (" + lotID + ")"
}

func term(shortTerm bool) string {
	if shortTerm {
		return "short"
	}
	return "long"
}

func wash(washed bool) string {
	if washed {
		return "W"
	}
	return ""
}
