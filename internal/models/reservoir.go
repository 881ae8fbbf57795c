package models

import "time"

// Reservoir is the static metadata CONAGUA publishes for a dam.
// JSON names follow the CONAGUA report fields so clients can use either source.
type Reservoir struct {
	ID             string   `json:"clavesih"`
	OfficialName   string   `json:"nombreoficial"`
	CommonName     string   `json:"nombrecomun"`
	State          string   `json:"estado"`
	Municipality   string   `json:"nommunicipio"`
	Region         string   `json:"regioncna"`
	Latitude       *float64 `json:"latitud"`
	Longitude      *float64 `json:"longitud"`
	Use            string   `json:"uso"`
	Stream         string   `json:"corriente"`
	SpillwayType   string   `json:"tipovertedor"`
	OperationStart string   `json:"inicioop"`
	CrestElevation string   `json:"elevcorona"`
	Freeboard      *float64 `json:"bordolibre"`
	NAMEElevation  *float64 `json:"nameelev"`  // extraordinary maximum water level, masl
	NAMEStorage    *float64 `json:"namealmac"` // storage at NAME, hm³
	NAMOElevation  *float64 `json:"namoelev"`  // ordinary maximum water level, masl
	NAMOStorage    *float64 `json:"namoalmac"` // storage at NAMO (capacity), hm³
	DamHeight      string   `json:"alturacortina"`
}

// ReservoirRef is the list-view projection of a reservoir.
type ReservoirRef struct {
	ID   string `json:"clavesih"`
	Name string `json:"nombrecomun"`
}

// ReadingRow is one stored daily observation.
type ReadingRow struct {
	ReservoirID  string
	Date         time.Time
	Elevation    *float64
	Volume       *float64
	FillFraction *float64
}
