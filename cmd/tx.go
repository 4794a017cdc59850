package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot"
	"github.com/etnz/taxlot/renderer"
	"github.com/google/subcommands"
)

type txCmd struct {
	start string
	end   string
	head  int
	tail  int
}

func (*txCmd) Name() string     { return "tx" }
func (*txCmd) Synopsis() string { return "list all events in the ledger" }
func (*txCmd) Usage() string {
	return `tx [-s <start_date>] [-e <end_date>] [-head <n>] [-tail <n>]

  Lists events from the ledger, with options for filtering and limiting the output.
`
}

func (p *txCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.start, "s", "", "List events on or after this date.")
	f.StringVar(&p.end, "e", "", "List events on or before this date.")
	f.IntVar(&p.head, "head", 0, "Show only the first N events.")
	f.IntVar(&p.tail, "tail", 0, "Show only the last N events.")
}

func (p *txCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.head > 0 && p.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

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

	var events []taxlot.Event
	for _, ev := range ledger.Events() {
		if period.Contains(ev.When()) {
			events = append(events, ev)
		}
	}

	if p.head > 0 && len(events) > p.head {
		events = events[:p.head]
	}
	if p.tail > 0 && len(events) > p.tail {
		events = events[len(events)-p.tail:]
	}

	printMarkdown(renderer.Events(events))

	return subcommands.ExitSuccess
}
