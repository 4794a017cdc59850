package taxlot

import (
	"testing"

	"github.com/etnz/taxlot/date"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		raw  string
		want Event
	}{
		{"!SPLIT#TSLA#3#2022-08-25", NewSplit(day("2022-08-25"), "TSLA", qty(3))},
		{"SPLIT#TSLA#0.25#2022-08-25", NewSplit(day("2022-08-25"), "TSLA", qty(0.25))},
		{"!split#TSLA#3#2022-08-25", NewSplit(day("2022-08-25"), "TSLA", qty(3))},
		{"!LIQUIDATE#XYZ#12.50#2023-03-01", NewLiquidate(day("2023-03-01"), "XYZ", usd(12.50))},
		{"!WASHGROUP#TQQQ#QQQ", NewWashGroup(date.Today(), "TQQQ", "QQQ")},
		{"!WASHGROUP#TQQQ#QQQ#SQQQ", NewWashGroup(date.Today(), "TQQQ", "QQQ", "SQQQ")},
	}
	for _, tc := range tests {
		got, err := ParseCommand(tc.raw)
		if err != nil {
			t.Errorf("ParseCommand(%q) returned an unexpected error: %v", tc.raw, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tc.raw, got, tc.want)
		}
	}
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []string{
		"!FROBNICATE#XYZ",
		"!SPLIT#TSLA#3",              // missing date
		"!SPLIT#TSLA#three#2022-1-1", // bad factor
		"!SPLIT#TSLA#3#someday",      // bad date
		"!LIQUIDATE#XYZ#12.50",       // missing date
		"!LIQUIDATE#XYZ#gold#2023-1-1",
		"!WASHGROUP#TQQQ", // a group of one
		"",
	}
	for _, raw := range tests {
		if _, err := ParseCommand(raw); err == nil {
			t.Errorf("ParseCommand(%q) succeeded, want an error", raw)
		}
	}
}
