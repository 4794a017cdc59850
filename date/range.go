package date

import "fmt"

// Range represents an inclusive range of dates. A zero From or To leaves that
// boundary open.
type Range struct{ From, To Date }

// NewRange returns a range between from and to. It fails when both boundaries
// are set and to is before from.
func NewRange(from, to Date) (Range, error) {
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return Range{}, fmt.Errorf("negative date range: from %s to %s", from, to)
	}
	return Range{From: from, To: to}, nil
}

// Contains returns true when date is included in the range (boundaries included).
func (r Range) Contains(d Date) bool {
	if !r.From.IsZero() && d.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && d.After(r.To) {
		return false
	}
	return true
}

// String formats the range boundaries, leaving open boundaries blank.
func (r Range) String() string {
	var from, to string
	if !r.From.IsZero() {
		from = r.From.String()
	}
	if !r.To.IsZero() {
		to = r.To.String()
	}
	return fmt.Sprintf("%s..%s", from, to)
}
