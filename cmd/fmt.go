package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/taxlot"
	"github.com/google/subcommands"
)

type fmtCmd struct{}

func (*fmtCmd) Name() string { return "fmt" }
func (*fmtCmd) Synopsis() string {
	return "validates and formats the ledger file into a canonical form"
}
func (*fmtCmd) Usage() string {
	return `fmt

  Validates and formats the ledger file. This command reads all events,
  validates them by replaying the full history, sorts them by date, and
  writes them back in a canonical JSONL format.
`
}

func (p *fmtCmd) SetFlags(f *flag.FlagSet) {}

func (p *fmtCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	// A ledger that does not replay is not worth writing back.
	if _, err := ledger.Replay(); err != nil {
		fmt.Fprintln(os.Stderr, "Error: ledger does not replay:", err)
		return subcommands.ExitFailure
	}

	file, err := os.Create(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	if err := taxlot.EncodeEvents(file, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Formatted %d events into %s\n", ledger.Len(), *ledgerFile)
	return subcommands.ExitSuccess
}

// --- Import Command ---

type importCmd struct {
	csv string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "import a legacy CSV transaction file into the ledger" }
func (*importCmd) Usage() string {
	return `import -csv <file>

  Imports a legacy CSV transaction file (tr_type, ticker, amount, price, date,
  comm, brokerage, add_basis, lot_ids columns, '!' command rows) and appends
  its events to the ledger file.
`
}

func (p *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.csv, "csv", "", "CSV file to import.")
}

func (p *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if p.csv == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}

	in, err := os.Open(p.csv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening csv file %q: %v\n", p.csv, err)
		return subcommands.ExitFailure
	}
	defer in.Close()

	imported, err := taxlot.ImportCSV(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", p.csv, err)
		return subcommands.ExitFailure
	}

	ledger, err := DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	for _, ev := range imported.Events() {
		ledger.Append(ev)
	}

	out, err := os.Create(*ledgerFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := taxlot.EncodeEvents(out, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing ledger file %q: %v\n", *ledgerFile, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(os.Stderr, "Imported %d events from %s\n", imported.Len(), p.csv)
	return subcommands.ExitSuccess
}
