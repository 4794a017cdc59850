package taxlot

import (
	"fmt"
	"strings"

	"github.com/etnz/taxlot/date"
)

// ParseCommand parses a '#'-separated command string into an event.
//
// Supported forms, with an optional leading '!':
//
//	!SPLIT#<ticker>#<factor>#<date>
//	!LIQUIDATE#<ticker>#<payout>#<date>
//	!WASHGROUP#<ticker>#<ticker>...
//
// The command keyword is case-insensitive.
func ParseCommand(raw string) (Event, error) {
	fields := strings.Split(strings.TrimPrefix(strings.TrimSpace(raw), "!"), "#")
	switch strings.ToUpper(fields[0]) {
	case "SPLIT":
		if len(fields) != 4 {
			return nil, fmt.Errorf("split command needs ticker, factor and date, got %q", raw)
		}
		factor, err := ParseQuantity(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid split factor %q: %w", fields[2], err)
		}
		day, err := date.Parse(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid split date %q: %w", fields[3], err)
		}
		return NewSplit(day, fields[1], factor), nil

	case "LIQUIDATE":
		if len(fields) != 4 {
			return nil, fmt.Errorf("liquidate command needs ticker, payout and date, got %q", raw)
		}
		payout, err := ParseMoney(fields[2])
		if err != nil {
			return nil, fmt.Errorf("invalid liquidation payout %q: %w", fields[2], err)
		}
		day, err := date.Parse(fields[3])
		if err != nil {
			return nil, fmt.Errorf("invalid liquidation date %q: %w", fields[3], err)
		}
		return NewLiquidate(day, fields[1], payout), nil

	case "WASHGROUP":
		if len(fields) < 3 {
			return nil, fmt.Errorf("washgroup command needs at least 2 tickers, got %q", raw)
		}
		return NewWashGroup(date.Today(), fields[1:]...), nil

	default:
		return nil, fmt.Errorf("unknown command %q", fields[0])
	}
}
