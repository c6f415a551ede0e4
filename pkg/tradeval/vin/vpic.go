package vin

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

const (
	vpicName = "vpic"

	// DefaultVPICBaseURL is NHTSA's public decode API.
	DefaultVPICBaseURL = "https://vpic.nhtsa.dot.gov/api/vehicles"
)

type vpicEnvelope struct {
	Results []vpicResult `json:"Results"`
}

type vpicResult struct {
	ModelYear               flexInt   `json:"ModelYear"`
	Make                    string    `json:"Make"`
	Model                   string    `json:"Model"`
	Trim                    string    `json:"Trim"`
	Series                  string    `json:"Series"`
	ModelVariantDescription string    `json:"ModelVariantDescription"`
	BodyClass               string    `json:"BodyClass"`
	EngineCylinders         flexInt   `json:"EngineCylinders"`
	DisplacementL           flexFloat `json:"DisplacementL"`
	DriveType               string    `json:"DriveType"`
	FuelTypePrimary         string    `json:"FuelTypePrimary"`
	ErrorCode               string    `json:"ErrorCode"`
}

// VPIC decodes VINs through the free NHTSA vPIC service. It needs no
// credentials and is the last resort of the chain.
type VPIC struct {
	baseURL string
	fetcher *Fetcher
}

// NewVPIC returns the vPIC decoder; an empty baseURL selects the public endpoint.
func NewVPIC(baseURL string, fetcher *Fetcher) *VPIC {
	if baseURL == "" {
		baseURL = DefaultVPICBaseURL
	}
	return &VPIC{baseURL: strings.TrimRight(baseURL, "/"), fetcher: fetcher}
}

func (v *VPIC) Name() string { return vpicName }

func (v *VPIC) Decode(ctx context.Context, vin string) (dal.VinDecodeResult, error) {
	result := dal.VinDecodeResult{VIN: vin}

	body, err := v.fetcher.Get(ctx, v.baseURL+"/DecodeVinValues/"+url.PathEscape(vin)+"?format=json", nil)
	if err != nil {
		result.Errors = []string{failureCode(vpicName, err)}
		return result, nil
	}

	var env vpicEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		result.Errors = []string{vpicName + "_bad_payload"}
		return result, nil
	}
	if len(env.Results) == 0 {
		result.Errors = []string{vpicName + "_no_results"}
		return result, nil
	}

	r := env.Results[0]
	result.Year = int(r.ModelYear)
	result.Make = strings.TrimSpace(r.Make)
	result.Model = strings.TrimSpace(r.Model)
	result.Trim = firstNonEmpty(r.Trim, r.Series, r.ModelVariantDescription)
	result.BodyClass = strings.TrimSpace(r.BodyClass)
	result.DriveType = strings.TrimSpace(r.DriveType)
	result.FuelType = strings.TrimSpace(r.FuelTypePrimary)
	result.Engine = newEngine(int(r.EngineCylinders), float64(r.DisplacementL))
	result.Raw = json.RawMessage(body)
	if !identified(result) {
		result.Errors = []string{vpicName + "_incomplete"}
		if code := strings.TrimSpace(r.ErrorCode); code != "" && code != "0" {
			result.Errors = append(result.Errors, vpicName+"_error_"+code)
		}
	}
	return result, nil
}
