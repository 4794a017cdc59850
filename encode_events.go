package taxlot

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts and share counts are numbers in the JSONL files, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DecodeEvents decodes events from a stream of JSONL data, one event per
// line identified by its "command" property, and returns a sorted Ledger.
func DecodeEvents(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Command CommandType `json:"command"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify command in line %q: %w", string(lineBytes), err)
		}

		var decoded Event
		var err error

		switch identifier.Command {
		case CmdBuy:
			var ev Buy
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case CmdSell:
			var ev Sell
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case CmdSplit:
			var ev Split
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case CmdLiquidate:
			var ev Liquidate
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		case CmdWashGroup:
			var ev WashGroup
			err = json.Unmarshal(lineBytes, &ev)
			decoded = ev
		default:
			err = fmt.Errorf("unknown event command: %q", identifier.Command)
		}

		if err != nil {
			return nil, err
		}
		ledger.events = append(ledger.events, decoded)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	// Restore chronological order; input order is kept as the tie-break.
	ledger.stableSort()

	return ledger, nil
}

// EncodeEvent marshals a single event to JSON and writes it to the writer,
// followed by a newline, in JSONL format.
func EncodeEvent(w io.Writer, ev Event) error {
	jsonData, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := w.Write(append(jsonData, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	return nil
}

// EncodeEvents reorders events by date and persists them to an io.Writer in
// JSONL format. The sort is stable, so events sharing a date keep their
// relative order.
func EncodeEvents(w io.Writer, ledger *Ledger) error {
	ledger.stableSort()

	for _, ev := range ledger.events {
		if err := EncodeEvent(w, ev); err != nil {
			return err
		}
	}

	return nil
}
