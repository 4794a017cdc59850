package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/taxlot"
	"github.com/etnz/taxlot/date"
	"github.com/google/subcommands"
)

// --- Buy Command ---

type buyCmd struct {
	date       string
	brokerage  string
	ticker     string
	shares     string
	price      string
	commission string
	lot        string
	addBasis   string
	noWash     bool
	memo       string
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a share purchase, opening a new buy lot" }
func (*buyCmd) Usage() string {
	return `buy -d <date> -b <brokerage> -t <ticker> -q <shares> -p <price> [-c <commission>] [-lot <id>] [-add-basis <amount>] [-no-wash] [-m <memo>]

  Records a share purchase. Each buy opens a new lot; name it with -lot to
  sell it explicitly later.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Purchase date (YYYY-MM-DD)")
	f.StringVar(&c.brokerage, "b", "", "Brokerage holding the lot")
	f.StringVar(&c.ticker, "t", "", "Security ticker")
	f.StringVar(&c.shares, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.StringVar(&c.commission, "c", "0", "Commission paid")
	f.StringVar(&c.lot, "lot", "", "Optional lot id")
	f.StringVar(&c.addBasis, "add-basis", "0", "Explicit basis adjustment (e.g. ESPP compensation income)")
	f.BoolVar(&c.noWash, "no-wash", false, "Exclude this lot from wash-sale trigger scans")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the event")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.brokerage == "" || c.ticker == "" || c.shares == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	shares, err := taxlot.ParseQuantity(c.shares)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing shares: %v\n", err)
		return subcommands.ExitUsageError
	}
	price, err := taxlot.ParseMoney(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}
	commission, err := taxlot.ParseMoney(c.commission)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing commission: %v\n", err)
		return subcommands.ExitUsageError
	}
	addBasis, err := taxlot.ParseMoney(c.addBasis)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing add-basis: %v\n", err)
		return subcommands.ExitUsageError
	}

	ev := taxlot.NewBuy(day, c.brokerage, c.ticker, shares, price).
		WithCommission(commission).
		WithAddedBasis(addBasis)
	ev.Memo = c.memo
	if c.lot != "" {
		ev = ev.WithLotID(c.lot)
	}
	if c.noWash {
		ev = ev.WithNoWash()
	}
	if _, err := ev.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return appendEvent(ev)
}

// --- Sell Command ---

type sellCmd struct {
	date       string
	brokerage  string
	ticker     string
	shares     string
	price      string
	commission string
	lots       string
	memo       string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a share sale, consuming open lots" }
func (*sellCmd) Usage() string {
	return `sell -d <date> -b <brokerage> -t <ticker> -q <shares> -p <price> [-c <commission>] [-lots <id:id...>] [-m <memo>]

  Records a share sale. Shares are matched oldest lot first unless -lots names
  an explicit sale schedule.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Sale date (YYYY-MM-DD)")
	f.StringVar(&c.brokerage, "b", "", "Brokerage holding the lots")
	f.StringVar(&c.ticker, "t", "", "Security ticker")
	f.StringVar(&c.shares, "q", "", "Number of shares")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.StringVar(&c.commission, "c", "0", "Commission paid")
	f.StringVar(&c.lots, "lots", "", "':'-separated lot ids to sell, in order")
	f.StringVar(&c.memo, "m", "", "An optional rationale or note for the event")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.brokerage == "" || c.ticker == "" || c.shares == "" || c.price == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	shares, err := taxlot.ParseQuantity(c.shares)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing shares: %v\n", err)
		return subcommands.ExitUsageError
	}
	price, err := taxlot.ParseMoney(c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing price: %v\n", err)
		return subcommands.ExitUsageError
	}
	commission, err := taxlot.ParseMoney(c.commission)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing commission: %v\n", err)
		return subcommands.ExitUsageError
	}

	ev := taxlot.NewSell(day, c.brokerage, c.ticker, shares, price).WithCommission(commission)
	ev.Memo = c.memo
	if c.lots != "" {
		var ids []string
		for _, id := range strings.Split(c.lots, ":") {
			if id != "" {
				ids = append(ids, id)
			}
		}
		ev = ev.WithLotIDs(ids...)
	}
	if _, err := ev.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return appendEvent(ev)
}

// --- Split Command ---

type splitCmd struct {
	date   string
	ticker string
	factor string
}

func (*splitCmd) Name() string     { return "split" }
func (*splitCmd) Synopsis() string { return "record a stock split, rescaling all prior lots" }
func (*splitCmd) Usage() string {
	return `split -d <date> -t <ticker> -f <factor>

  Records a stock split. Every lot of the ticker acquired on or before the
  split date is rescaled, at every brokerage. A factor below 1 is a reverse
  split.
`
}

func (c *splitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Split date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "t", "", "Security ticker")
	f.StringVar(&c.factor, "f", "", "Split factor (e.g. 3 for a 3-for-1 split, 0.25 for a 1-for-4 reverse split)")
}

func (c *splitCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.factor == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	factor, err := taxlot.ParseQuantity(c.factor)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing factor: %v\n", err)
		return subcommands.ExitUsageError
	}
	ev := taxlot.NewSplit(day, c.ticker, factor)
	if _, err := ev.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return appendEvent(ev)
}

// --- Liquidate Command ---

type liquidateCmd struct {
	date   string
	ticker string
	payout string
}

func (*liquidateCmd) Name() string     { return "liquidate" }
func (*liquidateCmd) Synopsis() string { return "record a forced disposal of a ticker at every brokerage" }
func (*liquidateCmd) Usage() string {
	return `liquidate -d <date> -t <ticker> -p <payout>

  Records a forced disposal (delisting, acquisition payout): every brokerage
  holding open lots sells its full position at the payout price.
`
}

func (c *liquidateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", date.Today().String(), "Liquidation date (YYYY-MM-DD)")
	f.StringVar(&c.ticker, "t", "", "Security ticker")
	f.StringVar(&c.payout, "p", "", "Per-share payout")
}

func (c *liquidateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.payout == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	day, err := date.Parse(c.date)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}
	payout, err := taxlot.ParseMoney(c.payout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing payout: %v\n", err)
		return subcommands.ExitUsageError
	}
	ev := taxlot.NewLiquidate(day, c.ticker, payout)
	if _, err := ev.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}
	return appendEvent(ev)
}

// --- WashGroup Command ---

type washGroupCmd struct{}

func (*washGroupCmd) Name() string { return "washgroup" }
func (*washGroupCmd) Synopsis() string {
	return "declare tickers as substantially identical for wash-sale analysis"
}
func (*washGroupCmd) Usage() string {
	return `washgroup <ticker> <ticker>...

  Declares a set of tickers as substantially identical: a loss on one can be
  washed by a purchase of any other in the group.
`
}

func (c *washGroupCmd) SetFlags(f *flag.FlagSet) {}

func (c *washGroupCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ev := taxlot.NewWashGroup(date.Today(), f.Args()...)
	if _, err := ev.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		f.Usage()
		return subcommands.ExitUsageError
	}
	return appendEvent(ev)
}
