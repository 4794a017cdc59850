package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2022-03-12", want: New(2022, time.March, 12)},
		{in: "2022-3-2", want: New(2022, time.March, 2)},
		{in: "not-a-date", wantErr: true},
		{in: "2022-13-01", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := Parse(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) expected an error, got %v", tc.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestAddAndSub(t *testing.T) {
	d := New(2022, time.June, 25)

	if got := d.Add(30); got != New(2022, time.July, 25) {
		t.Errorf("Add(30) = %v, want 2022-07-25", got)
	}
	if got := d.Add(-30); got != New(2022, time.May, 26) {
		t.Errorf("Add(-30) = %v, want 2022-05-26", got)
	}
	if got := d.Sub(New(2022, time.March, 12)); got != 105 {
		t.Errorf("Sub() = %d, want 105", got)
	}
	// A year boundary, including a leap day.
	if got := New(2024, time.March, 1).Sub(New(2024, time.February, 1)); got != 29 {
		t.Errorf("Sub() across leap February = %d, want 29", got)
	}
}

func TestRange_Contains(t *testing.T) {
	from := New(2022, time.January, 1)
	to := New(2022, time.December, 31)

	testCases := []struct {
		name string
		r    Range
		d    Date
		want bool
	}{
		{"inside", Range{from, to}, New(2022, time.June, 1), true},
		{"on lower boundary", Range{from, to}, from, true},
		{"on upper boundary", Range{from, to}, to, true},
		{"before", Range{from, to}, New(2021, time.December, 31), false},
		{"after", Range{from, to}, New(2023, time.January, 1), false},
		{"open upper", Range{From: from}, New(2030, time.January, 1), true},
		{"open lower", Range{To: to}, New(1990, time.January, 1), true},
		{"fully open", Range{}, New(2022, time.June, 1), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.r.Contains(tc.d); got != tc.want {
				t.Errorf("Contains(%v) = %v, want %v", tc.d, got, tc.want)
			}
		})
	}
}

func TestNewRange_Negative(t *testing.T) {
	_, err := NewRange(New(2022, time.June, 1), New(2022, time.January, 1))
	if err == nil {
		t.Fatal("NewRange with inverted boundaries should fail")
	}
}
