package timeseries

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Series is an immutable, ascending, duplicate-free sequence of readings
// for one reservoir. The zero value is an empty series.
type Series struct {
	readings []Reading
}

// Len returns the number of readings.
func (s Series) Len() int { return len(s.readings) }

// Empty reports whether the series has no readings.
func (s Series) Empty() bool { return len(s.readings) == 0 }

// At returns the i-th reading in date order.
func (s Series) At(i int) Reading { return s.readings[i].clone() }

// Readings returns a copy of the readings in date order.
func (s Series) Readings() []Reading {
	out := make([]Reading, len(s.readings))
	for i, r := range s.readings {
		out[i] = r.clone()
	}
	return out
}

// ReservoirID returns the reservoir the series belongs to, or "" when empty.
func (s Series) ReservoirID() string {
	if len(s.readings) == 0 {
		return ""
	}
	return s.readings[len(s.readings)-1].ReservoirID
}

// Start returns the first date of the series.
func (s Series) Start() (time.Time, error) {
	if len(s.readings) == 0 {
		return time.Time{}, ErrEmptySeries
	}
	return s.readings[0].Date, nil
}

// End returns the last date of the series.
func (s Series) End() (time.Time, error) {
	if len(s.readings) == 0 {
		return time.Time{}, ErrEmptySeries
	}
	return s.readings[len(s.readings)-1].Date, nil
}

// Raw converts the series back to wire records, in date order.
func (s Series) Raw() []RawReading {
	out := make([]RawReading, len(s.readings))
	for i, r := range s.readings {
		out[i] = r.Raw()
	}
	return out
}

// Normalize validates raw records and builds a Series.
//
// Records with an unparseable date or a missing, non-finite or out-of-range
// volume/fill are dropped and reported as issues. Among the surviving records,
// a later record for the same date replaces an earlier one.
func Normalize(raw []RawReading, rep FillRepresentation) (Series, []Issue) {
	var issues []Issue
	valid := make([]Reading, 0, len(raw))

	for i, rec := range raw {
		date, err := ParseDate(rec.Date)
		if err != nil {
			issues = append(issues, Issue{Kind: IssueMalformedDate, Index: i, Value: rec.Date, Err: err})
			continue
		}

		reading, err := validate(rec, date, rep)
		if err != nil {
			issues = append(issues, Issue{Kind: IssueMalformedValue, Index: i, Value: rec.Date, Err: err})
			continue
		}
		valid = append(valid, reading)
	}

	return build(valid), issues
}

func validate(rec RawReading, date time.Time, rep FillRepresentation) (Reading, error) {
	if rec.CurrentVolume == nil {
		return Reading{}, fmt.Errorf("%w: missing volume", ErrMalformedValue)
	}
	vol := *rec.CurrentVolume
	if !finite(vol) || vol < 0 {
		return Reading{}, fmt.Errorf("%w: volume %v", ErrMalformedValue, vol)
	}

	var fill *float64
	var upper float64
	switch rep {
	case FillFraction:
		fill, upper = rec.FillFraction, 1
	case FillPercentage:
		fill, upper = rec.FillPercentage, 100
	default:
		return Reading{}, fmt.Errorf("%w: %q", ErrUnknownRepresentation, rep)
	}
	if fill == nil {
		return Reading{}, fmt.Errorf("%w: missing fill %s", ErrMalformedValue, rep)
	}
	if !finite(*fill) || *fill < 0 || *fill > upper {
		return Reading{}, fmt.Errorf("%w: fill %s %v outside [0,%v]", ErrMalformedValue, rep, *fill, upper)
	}

	var elev *float64
	if rec.Elevation != nil && finite(*rec.Elevation) {
		elev = copyFloat(rec.Elevation)
	}

	return Reading{
		Date:           date,
		ReservoirID:    rec.ReservoirID,
		ReservoirName:  rec.ReservoirName,
		CurrentVolume:  vol,
		Fill:           *fill,
		Representation: rep,
		Elevation:      elev,
	}, nil
}

// build de-duplicates by date (last wins) and sorts ascending. The result
// never shares memory with the input.
func build(readings []Reading) Series {
	if len(readings) == 0 {
		return Series{}
	}

	pos := make(map[dateKey]int, len(readings))
	out := make([]Reading, 0, len(readings))
	for _, r := range readings {
		r.Date = DateOf(r.Date)
		k := keyOf(r.Date)
		if i, ok := pos[k]; ok {
			out[i] = r
			continue
		}
		pos[k] = len(out)
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return Series{readings: out}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
