package models

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// DateWindow is a viewing window plus the full data range, for date picker bounds.
type DateWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Min   string `json:"min"`
	Max   string `json:"max"`
}

// SeriesPoint is one chart point of the per-reservoir view.
type SeriesPoint struct {
	Date           string  `json:"date"`
	Volume         float64 `json:"volume"`
	FillPercentage float64 `json:"fill_percentage"`
}

// LatestReading is the summary shown under the chart and in the basin table.
type LatestReading struct {
	ReservoirID    string  `json:"clavesih"`
	Name           string  `json:"nombrecomun"`
	Date           string  `json:"fechamonitoreo"`
	Volume         float64 `json:"almacenaactual"`
	FillPercentage float64 `json:"fill_percentage"`
}

// SeriesResponse represents the per-reservoir chart payload.
// NoData is set when the reservoir has no usable readings; the other fields are then empty.
type SeriesResponse struct {
	ReservoirID string         `json:"clavesih"`
	Policy      string         `json:"policy"`
	NoData      bool           `json:"no_data"`
	Window      *DateWindow    `json:"window,omitempty"`
	Points      []SeriesPoint  `json:"points"`
	Latest      *LatestReading `json:"latest,omitempty"`
	Warnings    []Warning      `json:"warnings,omitempty"`
}

// BasinFrame is one date of the basin chart.
type BasinFrame struct {
	Date            string  `json:"date"`
	ReferenceVolume float64 `json:"reference_volume"`
	CompanionVolume float64 `json:"companion_volume"`
	Contributors    int     `json:"contributors"`
}

// BasinResponse represents the basin aggregate payload.
// HistoricalAverage is omitted when the reference has no history.
type BasinResponse struct {
	ReferenceID       string          `json:"reference_id"`
	Companions        []string        `json:"companions"`
	NoData            bool            `json:"no_data"`
	Window            *DateWindow     `json:"window,omitempty"`
	Frames            []BasinFrame    `json:"frames"`
	HistoricalAverage *float64        `json:"historical_average,omitempty"`
	Latest            []LatestReading `json:"latest"`
	Warnings          []Warning       `json:"warnings,omitempty"`
}

// StatusResponse is the day-over-day summary of one reservoir: its two most
// recent readings and what changed between them. Capacity is the NAMO storage;
// PercentageChange is the volume change in points of that capacity and is
// omitted when the capacity is unknown, like ElevationChange without levels.
type StatusResponse struct {
	ReservoirID      string    `json:"clavesih"`
	Name             string    `json:"nombrecomun"`
	NoData           bool      `json:"no_data"`
	Date             string    `json:"fechamonitoreo,omitempty"`
	PreviousDate     string    `json:"previous_date,omitempty"`
	Volume           float64   `json:"almacenaactual"`
	Capacity         *float64  `json:"namoalmac,omitempty"`
	FillPercentage   float64   `json:"fill_percentage"`
	VolumeChange     float64   `json:"volume_change_hm3"`
	ElevationChange  *float64  `json:"elevation_change_cm,omitempty"`
	PercentageChange *float64  `json:"percentage_change,omitempty"`
	Message          string    `json:"message,omitempty"`
	Warnings         []Warning `json:"warnings,omitempty"`
}

// IngestRequest represents the request body for POST /admin/ingest.
// Either Date, or From (and optionally To), must be given.
type IngestRequest struct {
	Date FlexibleDate `json:"date"`
	From FlexibleDate `json:"from"`
	To   FlexibleDate `json:"to"`
}

// IngestResult summarizes an ingest run.
type IngestResult struct {
	DaysProcessed  int       `json:"days_processed"`
	DaysWithData   int       `json:"days_with_data"`
	UpstreamCalls  int       `json:"upstream_calls"`
	ArchiveHits    int       `json:"archive_hits"`
	ReadingsStored int       `json:"readings_stored"`
	Warnings       []Warning `json:"warnings,omitempty"`
}
