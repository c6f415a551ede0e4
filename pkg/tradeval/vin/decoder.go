package vin

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

// Decoder maps a sanitized VIN to vehicle attributes.
//
// Transient upstream failures are reported in the result's Errors and never as
// an error return. A returned error means the decoder cannot be used at all,
// for example because it is missing credentials.
type Decoder interface {
	Name() string
	Decode(ctx context.Context, vin string) (dal.VinDecodeResult, error)
}

// ErrNotConfigured is returned by a decoder whose credentials are missing.
var ErrNotConfigured = errors.New("decoder not configured")

// flexInt accepts a JSON number or a numeric string; anything else is zero.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

// flexFloat accepts a JSON number or a numeric string; anything else is zero.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*f = 0
		return nil
	}
	*f = flexFloat(n)
	return nil
}

func newEngine(cylinders int, displacement float64) *dal.Engine {
	if cylinders == 0 && displacement == 0 {
		return nil
	}
	return &dal.Engine{Cylinders: cylinders, Displacement: displacement}
}

// identified reports whether year, make and model are all present.
func identified(r dal.VinDecodeResult) bool {
	return r.Year != 0 && r.Make != "" && r.Model != ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
