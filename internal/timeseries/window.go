package timeseries

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// WindowPolicy selects the default visible date range of a series.
type WindowPolicy string

const (
	PolicyLastYear  WindowPolicy = "lastYear"
	PolicyLastMonth WindowPolicy = "lastMonth"
	PolicyFullRange WindowPolicy = "fullRange"
)

// ParseWindowPolicy parses a policy name, case-insensitively.
func ParseWindowPolicy(s string) (WindowPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lastyear":
		return PolicyLastYear, nil
	case "lastmonth":
		return PolicyLastMonth, nil
	case "fullrange":
		return PolicyFullRange, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// DateWindow is an inclusive date range inside the full range of a series.
type DateWindow struct {
	Start      time.Time
	End        time.Time
	RangeStart time.Time
	RangeEnd   time.Time
}

// Contains reports whether d falls inside the window, inclusive.
func (w DateWindow) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(w.Start) && !d.After(w.End)
}

// DeriveWindow picks the default window for a series under the given policy.
// The window never starts before the first reading.
func DeriveWindow(s Series, policy WindowPolicy) (DateWindow, error) {
	if s.Empty() {
		return DateWindow{}, ErrEmptySeries
	}
	first, _ := s.Start()
	last, _ := s.End()

	w := DateWindow{Start: first, End: last, RangeStart: first, RangeEnd: last}
	switch policy {
	case PolicyLastYear:
		w.Start = shiftMonths(last, -12)
	case PolicyLastMonth:
		w.Start = shiftMonths(last, -1)
	case PolicyFullRange:
	default:
		return DateWindow{}, fmt.Errorf("%w: %q", ErrUnknownPolicy, policy)
	}
	if w.Start.Before(first) {
		w.Start = first
	}
	return w, nil
}

// NewWindow builds a window from explicit bounds, clamped to the full range of s.
// A zero start or end means the corresponding range bound.
func NewWindow(s Series, start, end time.Time) (DateWindow, error) {
	if s.Empty() {
		return DateWindow{}, ErrEmptySeries
	}
	first, _ := s.Start()
	last, _ := s.End()

	w := DateWindow{Start: first, End: last, RangeStart: first, RangeEnd: last}
	if !start.IsZero() {
		w.Start = DateOf(start)
	}
	if !end.IsZero() {
		w.End = DateOf(end)
	}
	if w.Start.After(w.End) {
		return DateWindow{}, fmt.Errorf("%w: %s after %s", ErrInvalidWindow, FormatDate(w.Start), FormatDate(w.End))
	}
	if w.Start.After(last) || w.End.Before(first) {
		return DateWindow{}, fmt.Errorf("%w: %s..%s outside data range %s..%s", ErrInvalidWindow,
			FormatDate(w.Start), FormatDate(w.End), FormatDate(first), FormatDate(last))
	}
	if w.Start.Before(first) {
		w.Start = first
	}
	if w.End.After(last) {
		w.End = last
	}
	return w, nil
}

// Slice returns the readings of s dated inside w, inclusive, as a new series.
func Slice(s Series, w DateWindow) Series {
	start, end := DateOf(w.Start), DateOf(w.End)
	if start.After(end) {
		return Series{}
	}
	rs := s.readings
	lo := sort.Search(len(rs), func(i int) bool { return !rs[i].Date.Before(start) })
	hi := sort.Search(len(rs), func(i int) bool { return rs[i].Date.After(end) })
	if lo >= hi {
		return Series{}
	}
	out := make([]Reading, hi-lo)
	copy(out, rs[lo:hi])
	return Series{readings: out}
}

// shiftMonths moves t by n calendar months, clamping the day to the end of
// the target month (Mar 31 minus one month is the last day of February).
func shiftMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	lastDay := first.AddDate(0, 1, -1).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(first.Year(), first.Month(), d, 0, 0, 0, 0, time.UTC)
}
