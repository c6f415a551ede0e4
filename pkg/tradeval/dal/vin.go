package dal

import "encoding/json"

// Engine defines the engine sub-record of a decoded VIN
type Engine struct {
	Cylinders    int     `json:"cylinders,omitempty"`
	Displacement float64 `json:"displacement,omitempty"`
}

// VinDecodeResult defines the outcome of resolving a VIN
type VinDecodeResult struct {
	VIN       string          `json:"vin"`
	Year      int             `json:"year,omitempty"`
	Make      string          `json:"make,omitempty"`
	Model     string          `json:"model,omitempty"`
	Trim      string          `json:"trim,omitempty"`
	BodyClass string          `json:"body_class,omitempty"`
	DriveType string          `json:"drive_type,omitempty"`
	FuelType  string          `json:"fuel_type,omitempty"`
	Engine    *Engine         `json:"engine,omitempty"`
	Errors    []string        `json:"errors,omitempty"`
	Raw       json.RawMessage `json:"raw,omitempty"`
}

// Usable reports whether the result identifies the vehicle and carries no errors.
// A result with errors is never authoritative, even if fields are populated.
func (r VinDecodeResult) Usable() bool {
	return len(r.Errors) == 0 && r.Year != 0 && r.Make != "" && r.Model != ""
}
