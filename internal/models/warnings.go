package models

// WarningCode categorizes warnings by subsystem.
// W1xxx = data quality, W2xxx = basin aggregation, W3xxx = ingest, W4xxx = windowing.
type WarningCode string

const (
	WarnMalformedDate      WarningCode = "W1001" // record dropped: date could not be parsed
	WarnMalformedValue     WarningCode = "W1002" // record dropped: volume or fill missing, non-finite or out of range
	WarnReferenceMismatch  WarningCode = "W2001" // series carried a different reservoir id than requested
	WarnCompanionNoData    WarningCode = "W2002" // companion has no readings in the window; contributes 0
	WarnAverageUnavailable WarningCode = "W2003" // reference history empty, historical average omitted
	WarnArchiveUnavailable WarningCode = "W3001" // raw report could not be read from or written to the archive
	WarnIngestFailed       WarningCode = "W3002" // one report date failed to load; the backfill continued
	WarnWindowClamped      WarningCode = "W4001" // requested window clamped to the available data range
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
