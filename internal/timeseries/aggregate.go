package timeseries

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// AggregateFrame is one reference date with the summed volume of every
// companion that reported on that date.
type AggregateFrame struct {
	Date            time.Time
	ReferenceVolume float64
	CompanionVolume float64
	Contributors    int
}

// Align produces one frame per reading of reference, in date order.
//
// Companions are matched by date, never by position: a companion missing a
// reference date contributes 0 to that frame, and dates only companions carry
// are ignored. Sums are exact, so companion order never changes the result.
func Align(reference Series, companions []Series) []AggregateFrame {
	lookups := make([]map[dateKey]float64, 0, len(companions))
	for _, c := range companions {
		if c.Empty() {
			continue
		}
		m := make(map[dateKey]float64, c.Len())
		for _, r := range c.readings {
			m[keyOf(r.Date)] = r.CurrentVolume
		}
		lookups = append(lookups, m)
	}

	frames := make([]AggregateFrame, 0, reference.Len())
	for _, r := range reference.readings {
		k := keyOf(r.Date)
		sum := decimal.Zero
		contributors := 0
		for _, m := range lookups {
			if v, ok := m[k]; ok {
				sum = sum.Add(decimal.NewFromFloat(v))
				contributors++
			}
		}
		total, _ := sum.Float64()
		frames = append(frames, AggregateFrame{
			Date:            r.Date,
			ReferenceVolume: r.CurrentVolume,
			CompanionVolume: total,
			Contributors:    contributors,
		})
	}
	return frames
}

// HistoricalAverage is the arithmetic mean of CurrentVolume over the whole series.
func HistoricalAverage(s Series) (float64, error) {
	if s.Empty() {
		return 0, ErrEmptySeries
	}
	sum := decimal.Zero
	for _, r := range s.readings {
		sum = sum.Add(decimal.NewFromFloat(r.CurrentVolume))
	}
	mean, _ := sum.Div(decimal.NewFromInt(int64(s.Len()))).Float64()
	return mean, nil
}

// Summary is the display projection of the most recent reading.
type Summary struct {
	Date           time.Time
	ReservoirID    string
	ReservoirName  string
	CurrentVolume  float64
	FillPercentage float64
}

// Latest returns the most recent reading of s. It relies on the series being
// sorted ascending without duplicates, which every Series guarantees.
func Latest(s Series) (Summary, error) {
	if s.Empty() {
		return Summary{}, ErrEmptySeries
	}
	r := s.readings[len(s.readings)-1]
	return Summary{
		Date:           r.Date,
		ReservoirID:    r.ReservoirID,
		ReservoirName:  r.ReservoirName,
		CurrentVolume:  r.CurrentVolume,
		FillPercentage: r.Percentage(),
	}, nil
}

// Change pairs the two most recent readings of a series.
type Change struct {
	Previous Reading
	Current  Reading
}

// VolumeDelta is the storage gained (positive) or lost since Previous, in hm³.
func (c Change) VolumeDelta() float64 {
	return c.Current.CurrentVolume - c.Previous.CurrentVolume
}

// ElevationDelta is the level change in metres. ok is false unless both
// readings carry an elevation.
func (c Change) ElevationDelta() (delta float64, ok bool) {
	if c.Current.Elevation == nil || c.Previous.Elevation == nil {
		return 0, false
	}
	return *c.Current.Elevation - *c.Previous.Elevation, true
}

// LastChange returns the two most recent readings of s.
func LastChange(s Series) (Change, error) {
	n := len(s.readings)
	if n < 2 {
		return Change{}, ErrTooFewReadings
	}
	return Change{
		Previous: s.readings[n-2].clone(),
		Current:  s.readings[n-1].clone(),
	}, nil
}

// CheckIdentity reports ErrReferenceMismatch when a non-empty series belongs to
// a different reservoir than expected. Align does not call it.
func CheckIdentity(s Series, expectedID string) error {
	if s.Empty() {
		return nil
	}
	for _, r := range s.readings {
		if r.ReservoirID != expectedID {
			return fmt.Errorf("%w: expected %s, got %s", ErrReferenceMismatch, expectedID, r.ReservoirID)
		}
	}
	return nil
}
