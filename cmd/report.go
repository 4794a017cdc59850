package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot"
	"github.com/etnz/taxlot/date"
	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

// parseRange builds a date range from optional -s and -e flag values.
func parseRange(start, end string) (date.Range, error) {
	var from, to date.Date
	var err error
	if start != "" {
		if from, err = date.Parse(start); err != nil {
			return date.Range{}, fmt.Errorf("invalid start date: %w", err)
		}
	}
	if end != "" {
		if to, err = date.Parse(end); err != nil {
			return date.Range{}, fmt.Errorf("invalid end date: %w", err)
		}
	}
	return date.NewRange(from, to)
}

// --- Report Command ---

type reportCmd struct {
	start string
	end   string
	json  bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "replay the ledger and report sales with wash-sale analysis" }
func (*reportCmd) Usage() string {
	return `report [-s <start_date>] [-e <end_date>] [-json]

  Replays the full event history and reports the sale items of the period with
  their gains, terms and disallowed wash losses.
`
}

func (p *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.start, "s", "", "Report sales sold on or after this date.")
	f.StringVar(&p.end, "e", "", "Report sales sold on or before this date.")
	f.BoolVar(&p.json, "json", false, "Emit the sale items as JSONL instead of markdown.")
}

func (p *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := parseRange(p.start, p.end)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	result, err := ledger.Replay()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error replaying ledger:", err)
		return subcommands.ExitFailure
	}

	report := taxlot.NewSalesReport(result, period)
	if p.json {
		enc := json.NewEncoder(os.Stdout)
		for _, item := range report.Items {
			if err := enc.Encode(item); err != nil {
				fmt.Fprintln(os.Stderr, "Error encoding sale item:", err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.SalesMarkdown(report))

	return subcommands.ExitSuccess
}

// --- Holding Command ---

type holdingCmd struct {
	quotes bool
	json   bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "report the residual open lots after a full replay" }
func (*holdingCmd) Usage() string {
	return `holding [-quotes] [-json]

  Replays the full event history and reports the residual open positions and
  their cost basis. With -quotes, positions are also valued at the latest
  market price.
`
}

func (p *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.quotes, "quotes", false, "Fetch market quotes to value the positions.")
	f.BoolVar(&p.json, "json", false, "Emit the holdings as JSONL instead of markdown.")
}

func (p *holdingCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	result, err := ledger.Replay()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error replaying ledger:", err)
		return subcommands.ExitFailure
	}

	if p.json {
		enc := json.NewEncoder(os.Stdout)
		for _, holding := range result.Holdings {
			if err := enc.Encode(holding); err != nil {
				fmt.Fprintln(os.Stderr, "Error encoding holding:", err)
				return subcommands.ExitFailure
			}
		}
		return subcommands.ExitSuccess
	}

	var prices map[string]taxlot.Money
	if p.quotes {
		tickers := make(map[string]bool)
		var list []string
		for _, holding := range result.Holdings {
			if !tickers[holding.Ticker] {
				tickers[holding.Ticker] = true
				list = append(list, holding.Ticker)
			}
		}
		prices = taxlot.FetchQuotes(taxlot.NewYahooQuotes(), list)
	}

	report := taxlot.NewHoldingsReport(result, date.Today(), prices)
	printMarkdown(renderer.HoldingsMarkdown(report))

	return subcommands.ExitSuccess
}
