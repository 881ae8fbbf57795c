// Package timeseries turns raw daily reservoir readings into sorted series,
// default viewing windows, and date-aligned basin aggregates.
//
// Every function in this package is pure: inputs are never retained or
// mutated, and returned values never share backing arrays with the caller.
package timeseries

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// RawReading is the wire shape of a reading as produced by the data service.
// Numeric fields are pointers so a missing field can be told apart from zero.
type RawReading struct {
	Date           string   `json:"fechamonitoreo"`
	ReservoirID    string   `json:"clavesih"`
	ReservoirName  string   `json:"nombrecomun,omitempty"`
	CurrentVolume  *float64 `json:"almacenaactual"`
	FillFraction   *float64 `json:"llenano,omitempty"`
	FillPercentage *float64 `json:"fill_percentage,omitempty"`
	// Elevation is carried through for display only.
	Elevation *float64 `json:"elevacionactual,omitempty"`
}

// FillRepresentation declares which fill field a deployment treats as canonical.
type FillRepresentation string

const (
	FillFraction   FillRepresentation = "fraction"
	FillPercentage FillRepresentation = "percentage"
)

// ParseFillRepresentation parses a configured representation name.
func ParseFillRepresentation(s string) (FillRepresentation, error) {
	switch FillRepresentation(strings.ToLower(strings.TrimSpace(s))) {
	case FillFraction:
		return FillFraction, nil
	case FillPercentage:
		return FillPercentage, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRepresentation, s)
}

// Reading is one validated daily observation.
type Reading struct {
	Date           time.Time
	ReservoirID    string
	ReservoirName  string
	CurrentVolume  float64
	Fill           float64
	Representation FillRepresentation
	// Elevation is nil when the record carried no finite elevation.
	Elevation *float64
}

// Percentage returns the fill as a percentage of capacity.
func (r Reading) Percentage() float64 {
	if r.Representation == FillFraction {
		return r.Fill * 100
	}
	return r.Fill
}

// Raw converts the reading back to its wire shape using its own representation.
func (r Reading) Raw() RawReading {
	vol := r.CurrentVolume
	fill := r.Fill
	raw := RawReading{
		Date:          r.Date.Format(dateLayout),
		ReservoirID:   r.ReservoirID,
		ReservoirName: r.ReservoirName,
		CurrentVolume: &vol,
		Elevation:     copyFloat(r.Elevation),
	}
	if r.Representation == FillFraction {
		raw.FillFraction = &fill
	} else {
		raw.FillPercentage = &fill
	}
	return raw
}

// ParseDate parses an ISO-like date string into its calendar date at UTC midnight.
// Any time-of-day component is discarded without shifting the calendar day.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateOf(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, s)
}

// DateOf truncates t to its calendar date, expressed at UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// FormatDate renders a calendar date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// dateKey identifies a calendar date; used for alignment lookups.
type dateKey int64

func keyOf(t time.Time) dateKey {
	return dateKey(DateOf(t).Unix() / 86400)
}

// clone returns r with its own copy of every pointed-to value.
func (r Reading) clone() Reading {
	r.Elevation = copyFloat(r.Elevation)
	return r
}

func copyFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
