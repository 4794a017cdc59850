package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot"
)

// Event renders an event to a one-line string.
func Event(ev taxlot.Event) string {
	switch v := ev.(type) {
	case taxlot.Buy:
		return fmt.Sprintf("Bought %s %s at %s (%s)", v.Shares, v.Ticker, v.Price, v.Brokerage)
	case taxlot.Sell:
		return fmt.Sprintf("Sold %s %s at %s (%s)", v.Shares, v.Ticker, v.Price, v.Brokerage)
	case taxlot.Split:
		return fmt.Sprintf("Split %s by %s", v.Ticker, v.Factor)
	case taxlot.Liquidate:
		return fmt.Sprintf("Liquidated %s at %s", v.Ticker, v.Payout)
	case taxlot.WashGroup:
		return fmt.Sprintf("Wash group %s", strings.Join(v.Tickers, ", "))
	default:
		return string(ev.What())
	}
}

// Events renders a list of events to a markdown table.
func Events(events []taxlot.Event) string {
	var b strings.Builder
	fmt.Fprint(&b, "# Events\n\n")
	if len(events) == 0 {
		fmt.Fprintln(&b, "No events.")
		return b.String()
	}
	fmt.Fprintln(&b, "| Date | Event |")
	fmt.Fprintln(&b, "|:---|:---|")
	for _, ev := range events {
		fmt.Fprintf(&b, "| %s | %s |\n", ev.When(), Event(ev))
	}
	return b.String()
}
