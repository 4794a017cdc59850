package taxlot

import (
	"testing"

	"github.com/etnz/taxlot/date"
)

// usd is a helper for tests to create dollar money from const
func usd(v float64) Money { return M(v, USD) }

// qty is a helper for tests to create share quantities from const
func qty(v float64) Quantity { return Q(v) }

// day is a helper for tests to create dates from const
func day(s string) date.Date { return date.MustParse(s) }

// replay is a helper running a full replay over the given events, failing the
// test on error.
func mustReplay(t *testing.T, events ...Event) *Result {
	t.Helper()
	ledger := NewLedger()
	ledger.Append(events...)
	result, err := ledger.Replay()
	if err != nil {
		t.Fatalf("Replay() returned an unexpected error: %v", err)
	}
	return result
}

// checkMoney fails the test when got differs from want.
func checkMoney(t *testing.T, label string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

// checkQuantity fails the test when got differs from want.
func checkQuantity(t *testing.T, label string, got, want Quantity) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}
