package vin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

const commercialName = "commercial"

type commercialPayload struct {
	Year       flexInt `json:"year"`
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	Trim       string  `json:"trim"`
	Body       string  `json:"body"`
	FuelType   string  `json:"fuelType"`
	Drivetrain string  `json:"drivetrain"`
	Engine     struct {
		Cylinders    flexInt   `json:"cylinders"`
		Displacement flexFloat `json:"displacement"`
	} `json:"engine"`
}

// Commercial decodes VINs through a paid, bearer-token authenticated API.
type Commercial struct {
	baseURL string
	apiKey  string
	fetcher *Fetcher
}

// NewCommercial returns the commercial decoder for baseURL.
func NewCommercial(baseURL, apiKey string, fetcher *Fetcher) *Commercial {
	return &Commercial{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		fetcher: fetcher,
	}
}

func (c *Commercial) Name() string { return commercialName }

func (c *Commercial) Decode(ctx context.Context, vin string) (dal.VinDecodeResult, error) {
	if c.apiKey == "" || c.baseURL == "" {
		return dal.VinDecodeResult{}, ErrNotConfigured
	}

	header := http.Header{}
	header.Set("Authorization", "Bearer "+c.apiKey)

	result := dal.VinDecodeResult{VIN: vin}
	body, err := c.fetcher.Get(ctx, c.baseURL+"/"+url.PathEscape(vin), header)
	if err != nil {
		result.Errors = []string{failureCode(commercialName, err)}
		return result, nil
	}

	var p commercialPayload
	if err := json.Unmarshal(body, &p); err != nil {
		result.Errors = []string{commercialName + "_bad_payload"}
		return result, nil
	}

	result.Year = int(p.Year)
	result.Make = strings.TrimSpace(p.Make)
	result.Model = strings.TrimSpace(p.Model)
	result.Trim = strings.TrimSpace(p.Trim)
	result.BodyClass = strings.TrimSpace(p.Body)
	result.DriveType = strings.TrimSpace(p.Drivetrain)
	result.FuelType = strings.TrimSpace(p.FuelType)
	result.Engine = newEngine(int(p.Engine.Cylinders), float64(p.Engine.Displacement))
	result.Raw = json.RawMessage(body)
	if !identified(result) {
		result.Errors = []string{commercialName + "_incomplete"}
	}
	return result, nil
}
