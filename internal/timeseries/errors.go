package timeseries

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedDate marks a record whose date could not be parsed.
	ErrMalformedDate = errors.New("malformed date")
	// ErrMalformedValue marks a record whose volume or fill is missing, non-finite or out of range.
	ErrMalformedValue = errors.New("malformed value")
	// ErrEmptySeries is returned by operations that need at least one reading.
	ErrEmptySeries = errors.New("empty series")
	// ErrReferenceMismatch marks a series that does not belong to the reservoir it was fetched for.
	ErrReferenceMismatch = errors.New("reference mismatch")
	// ErrTooFewReadings is returned by LastChange when there is nothing to compare.
	ErrTooFewReadings = errors.New("fewer than two readings")
	// ErrInvalidWindow is returned when a window starts after it ends.
	ErrInvalidWindow = errors.New("invalid window")

	ErrUnknownPolicy         = errors.New("unknown window policy")
	ErrUnknownRepresentation = errors.New("unknown fill representation")
)

// IssueKind classifies a dropped record.
type IssueKind string

const (
	IssueMalformedDate  IssueKind = "malformed_date"
	IssueMalformedValue IssueKind = "malformed_value"
)

// Issue describes one record dropped by Normalize.
// Index is the record's position in the raw input.
type Issue struct {
	Kind  IssueKind
	Index int
	Value string
	Err   error
}

func (i Issue) Error() string {
	return fmt.Sprintf("record %d (%s): %v", i.Index, i.Value, i.Err)
}

func (i Issue) Unwrap() error {
	return i.Err
}
