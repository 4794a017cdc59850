package taxlot

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/taxlot/date"
)

// This file supports the legacy CSV transaction format, so existing histories
// can be imported without rewriting them by hand.
//
// The format is a headered CSV with the columns tr_type, ticker, amount,
// price, date, comm, brokerage, add_basis and lot_ids (':'-separated). A row
// whose ticker column starts with '!' is a command row (split, liquidate,
// washgroup) and every other column of that row is ignored.

// ImportCSV decodes the legacy CSV transaction format from 'r' and returns a
// sorted Ledger.
func ImportCSV(r io.Reader) (*Ledger, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("cannot read csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}
	for _, name := range []string{"tr_type", "ticker", "amount", "price", "date", "comm", "brokerage"} {
		if _, ok := col[name]; !ok {
			return nil, fmt.Errorf("csv header is missing the %q column", name)
		}
	}

	// cell tolerates rows shorter than the header and optional columns.
	cell := func(record []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	ledger := NewLedger()
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv error on line %d: %w", line, err)
		}

		if ticker := cell(record, "ticker"); strings.HasPrefix(ticker, "!") {
			ev, err := ParseCommand(ticker)
			if err != nil {
				return nil, fmt.Errorf("csv error on line %d: %w", line, err)
			}
			ledger.Append(ev)
			continue
		}

		ev, err := decodeCSVTrade(record, cell)
		if err != nil {
			return nil, fmt.Errorf("csv error on line %d: %w", line, err)
		}
		ledger.Append(ev)
	}
	return ledger, nil
}

// decodeCSVTrade decodes one non-command row into a Buy or Sell event.
func decodeCSVTrade(record []string, cell func([]string, string) string) (Event, error) {
	day, err := date.Parse(cell(record, "date"))
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", cell(record, "date"), err)
	}
	shares, err := ParseQuantity(cell(record, "amount"))
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", cell(record, "amount"), err)
	}
	price, err := ParseMoney(cell(record, "price"))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", cell(record, "price"), err)
	}
	commission := M(0, USD)
	if s := cell(record, "comm"); s != "" {
		if commission, err = ParseMoney(s); err != nil {
			return nil, fmt.Errorf("invalid commission %q: %w", s, err)
		}
	}

	// empty ids from a trailing or doubled ':' are dropped
	var lotIDs []string
	for _, id := range strings.Split(cell(record, "lot_ids"), ":") {
		if id != "" {
			lotIDs = append(lotIDs, id)
		}
	}

	brokerage := cell(record, "brokerage")
	ticker := cell(record, "ticker")

	switch trType := strings.ToLower(cell(record, "tr_type")); trType {
	case "buy":
		ev := NewBuy(day, brokerage, ticker, shares, price).WithCommission(commission)
		if s := cell(record, "add_basis"); s != "" {
			addedBasis, err := ParseMoney(s)
			if err != nil {
				return nil, fmt.Errorf("invalid add_basis %q: %w", s, err)
			}
			ev = ev.WithAddedBasis(addedBasis)
		}
		if len(lotIDs) > 1 {
			return nil, fmt.Errorf("buy rows take at most one lot id, got %v", lotIDs)
		}
		if len(lotIDs) == 1 {
			ev = ev.WithLotID(lotIDs[0])
		}
		return ev, nil
	case "sell":
		ev := NewSell(day, brokerage, ticker, shares, price).WithCommission(commission)
		if len(lotIDs) > 0 {
			ev = ev.WithLotIDs(lotIDs...)
		}
		return ev, nil
	default:
		return nil, fmt.Errorf("invalid tr_type %q, must be \"buy\" or \"sell\"", trType)
	}
}
