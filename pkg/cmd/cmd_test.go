package cmd

import (
	"bytes"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	t.Cleanup(func() { RootCmd.SetArgs(nil) })
	err := RootCmd.Execute()
	return out.String(), err
}

func TestEstimateCmd(t *testing.T) {
	year := strconv.Itoa(time.Now().Year())
	out, err := run(t, "estimate", "--year", year, "--mileage", "0", "--condition", "5", "--provider-mode", "demo")
	require.NoError(t, err)

	var got dal.ValuationResponse
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.NotEmpty(t, got.RequestID)
	assert.Len(t, got.Quotes, 5)
	require.NotNil(t, got.Summary)
	assert.Equal(t, 40880, got.Summary.Avg)
	assert.Equal(t, dal.ConfidenceMedium, got.Summary.Confidence)
}

func TestEstimateCmdRejectsCondition(t *testing.T) {
	_, err := run(t, "estimate", "--year", "2020", "--mileage", "0", "--condition", "7")
	assert.Error(t, err)
}

func TestEstimateCmdRejectsYear(t *testing.T) {
	for _, year := range []string{"0", "1850"} {
		_, err := run(t, "estimate", "--year", year, "--mileage", "0", "--condition", "3")
		assert.Error(t, err, year)
	}
}

func TestDecodeCmdInvalidLength(t *testing.T) {
	out, err := run(t, "decode", "1hgc")
	require.NoError(t, err)

	var got dal.VinDecodeResult
	require.NoError(t, json.Unmarshal([]byte(out), &got), out)
	assert.Equal(t, dal.VinDecodeResult{VIN: "1HGC", Errors: []string{"invalid_length"}}, got)
}

func TestDecodeCmdRequiresArg(t *testing.T) {
	_, err := run(t, "decode")
	assert.Error(t, err)
}
