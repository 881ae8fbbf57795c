package conagua

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ReportItem is one dam in the CONAGUA daily report.
type ReportItem struct {
	MonitoringID   Number `json:"idmonitoreodiario"`
	Date           string `json:"fechamonitoreo"`
	ReservoirID    string `json:"clavesih"`
	OfficialName   Text   `json:"nombreoficial"`
	CommonName     Text   `json:"nombrecomun"`
	State          Text   `json:"estado"`
	Municipality   Text   `json:"nommunicipio"`
	Region         Text   `json:"regioncna"`
	Latitude       Number `json:"latitud"`
	Longitude      Number `json:"longitud"`
	Use            Text   `json:"uso"`
	Stream         Text   `json:"corriente"`
	SpillwayType   Text   `json:"tipovertedor"`
	OperationStart Text   `json:"inicioop"`
	CrestElevation Text   `json:"elevcorona"`
	Freeboard      Number `json:"bordolibre"`
	NAMEElevation  Number `json:"nameelev"`
	NAMEStorage    Number `json:"namealmac"`
	NAMOElevation  Number `json:"namoelev"`
	NAMOStorage    Number `json:"namoalmac"`
	DamHeight      Text   `json:"alturacortina"`
	Elevation      Number `json:"elevacionactual"`
	Volume         Number `json:"almacenaactual"`
	FillFraction   Number `json:"llenano"`
}

// ParsedDate returns the monitoring date of the item.
func (r ReportItem) ParsedDate() (time.Time, error) {
	s := strings.TrimSpace(r.Date)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad fechamonitoreo %q: %w", r.Date, err)
	}
	return t, nil
}

// Number is a nullable numeric field. CONAGUA sends numbers, numeric strings,
// empty strings or null for the same field depending on the dam.
type Number struct {
	Value *float64
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *Number) UnmarshalJSON(b []byte) error {
	n.Value = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("not a number: %s", b)
	}
	n.Value = &v
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (n Number) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// Text is a string field that is occasionally delivered as a number.
type Text string

// UnmarshalJSON implements the json.Unmarshaler interface.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || string(b) == "null":
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
	default:
		*t = Text(b)
	}
	return nil
}
