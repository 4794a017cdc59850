package taxlot

import (
	"fmt"
	"sort"

	"github.com/etnz/taxlot/date"
)

// splitTerm is one entry of a ticker's split schedule.
type splitTerm struct {
	Date   date.Date
	Factor Quantity
}

// splitSchedule maps each ticker to its date-ordered splits. Splits apply by
// date, independently of their position in the input: building the schedule
// is the pre-pass that guarantees a split reached during replay rescales
// every lot acquired on or before its date, past or future in file order.
type splitSchedule map[string][]splitTerm

// buildSplitSchedule collects every split of the event stream into a
// per-ticker, date-ordered schedule. A non-positive factor is a
// configuration error.
func buildSplitSchedule(events []Event) (splitSchedule, error) {
	schedule := make(splitSchedule)
	for i, ev := range events {
		t, ok := ev.(Split)
		if !ok {
			continue
		}
		if !t.Factor.IsPositive() {
			return nil, fmt.Errorf("event %d: split of %s on %s has non-positive factor %s",
				i, t.Ticker, t.Date, t.Factor)
		}
		schedule[t.Ticker] = append(schedule[t.Ticker], splitTerm{Date: t.Date, Factor: t.Factor})
	}
	for ticker := range schedule {
		terms := schedule[ticker]
		sort.SliceStable(terms, func(i, j int) bool { return terms[i].Date.Before(terms[j].Date) })
		schedule[ticker] = terms
	}
	return schedule, nil
}
