package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/provider"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/valuation"
)

type stubDecoder struct {
	raw []string
}

func (s *stubDecoder) Decode(_ context.Context, raw string) dal.VinDecodeResult {
	s.raw = append(s.raw, raw)
	if raw == "1HGC" {
		return dal.VinDecodeResult{VIN: raw, Errors: []string{"invalid_length"}}
	}
	return dal.VinDecodeResult{VIN: strings.ToUpper(raw), Year: 2003, Make: "HONDA", Model: "Accord"}
}

type emptyQuoter struct{}

func (emptyQuoter) QuoteAll(context.Context, dal.VehicleDescription) ([]dal.SourceQuote, []dal.ProviderFailure) {
	return []dal.SourceQuote{}, []dal.ProviderFailure{{Source: dal.SourceKBB, Code: "KBB_NOT_CONFIGURED"}}
}

func newTestServer(t *testing.T, quoter Quoter) (*httptest.Server, *stubDecoder) {
	t.Helper()
	if quoter == nil {
		estimator := &valuation.Estimator{Now: func() time.Time {
			return time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
		}}
		registry, err := provider.NewDefaultRegistry(provider.ModeDemo, nil, estimator, nil)
		require.NoError(t, err)
		quoter = registry
	}
	decoder := &stubDecoder{}
	server := newHTTPServer(quoter, decoder, nil)
	ts := httptest.NewServer(server.router())
	t.Cleanup(ts.Close)
	return ts, decoder
}

func decodeBody(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, into), string(body))
}

func TestValuation(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	tests := []struct {
		name string
		do   func() (*http.Response, error)
	}{
		{
			name: "Query",
			do: func() (*http.Response, error) {
				return http.Get(ts.URL + "/api/valuation?year=2026&mileage=0&condition=5")
			},
		},
		{
			name: "JSON",
			do: func() (*http.Response, error) {
				return http.Post(ts.URL+"/api/valuation", "application/json",
					strings.NewReader(`{"year":2026,"mileage":0,"condition":5}`))
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := tc.do()
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var got dal.ValuationResponse
			decodeBody(t, resp, &got)

			assert.NotEmpty(t, got.RequestID)
			assert.Equal(t, dal.VehicleDescription{Year: 2026, Mileage: 0, Condition: 5}, got.Vehicle)
			require.Len(t, got.Quotes, 5)
			assert.Empty(t, got.Failures)
			require.NotNil(t, got.Summary)
			assert.Equal(t, dal.AggregateResult{Low: 40380, High: 41380, Avg: 40880, Confidence: dal.ConfidenceMedium}, *got.Summary)
		})
	}
}

func TestValuationOptions(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/valuation?year=2026&condition=3&options=sunroof,+nav&options=tow")
	require.NoError(t, err)

	var got dal.ValuationResponse
	decodeBody(t, resp, &got)
	assert.Equal(t, []string{"sunroof", "nav", "tow"}, got.Vehicle.Options)
}

func TestValuationNoQuotes(t *testing.T) {
	ts, _ := newTestServer(t, emptyQuoter{})

	resp, err := http.Get(ts.URL + "/api/valuation?year=2020&mileage=40000&condition=3")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var raw map[string]json.RawMessage
	decodeBody(t, resp, &raw)
	assert.Equal(t, "null", string(raw["summary"]))
	assert.Contains(t, string(raw["failures"]), "KBB_NOT_CONFIGURED")
}

func TestValuationValidation(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		field  string
	}{
		{name: "MissingYear", method: http.MethodGet, path: "/api/valuation?condition=3", field: "year"},
		{name: "NonNumericMileage", method: http.MethodGet, path: "/api/valuation?year=2020&condition=3&mileage=lots", field: "mileage"},
		{name: "NegativeMileage", method: http.MethodGet, path: "/api/valuation?year=2020&condition=3&mileage=-1", field: "mileage"},
		{name: "ConditionTooHigh", method: http.MethodGet, path: "/api/valuation?year=2020&condition=6", field: "condition"},
		{name: "AncientYear", method: http.MethodPost, path: "/api/valuation", body: `{"year":1850,"condition":3}`, field: "year"},
		{name: "NegativeMileageJSON", method: http.MethodPost, path: "/api/valuation", body: `{"year":2020,"condition":3,"mileage":-5}`, field: "mileage"},
		{name: "ConditionZeroJSON", method: http.MethodPost, path: "/api/valuation", body: `{"year":2020,"condition":0}`, field: "condition"},
		{name: "Malformed", method: http.MethodPost, path: "/api/valuation", body: `{"year":`},
		{name: "UnknownField", method: http.MethodPost, path: "/api/valuation", body: `{"year":2020,"condition":3,"colour":"red"}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(tc.method, ts.URL+tc.path, strings.NewReader(tc.body))
			require.NoError(t, err)
			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var got ErrorResponse
			decodeBody(t, resp, &got)
			assert.NotEmpty(t, got.Message)
			if tc.field != "" {
				require.Len(t, got.Details, 1)
				assert.Equal(t, tc.field, got.Details[0].Path)
			}
		})
	}
}

func TestVIN(t *testing.T) {
	ts, decoder := newTestServer(t, nil)

	tests := []struct {
		name     string
		path     string
		expected dal.VinDecodeResult
	}{
		{
			name:     "Decoded",
			path:     "/api/vin/1hg-cm82633a004352",
			expected: dal.VinDecodeResult{VIN: "1HG-CM82633A004352", Year: 2003, Make: "HONDA", Model: "Accord"},
		},
		{
			name:     "InvalidStillOK",
			path:     "/api/vin/1HGC",
			expected: dal.VinDecodeResult{VIN: "1HGC", Errors: []string{"invalid_length"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tc.path)
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)

			var got dal.VinDecodeResult
			decodeBody(t, resp, &got)
			assert.Equal(t, tc.expected, got)
		})
	}
	assert.Equal(t, []string{"1hg-cm82633a004352", "1HGC"}, decoder.raw)
}

func TestHealthAndRouting(t *testing.T) {
	ts, _ := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", string(body))

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/valuation", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
