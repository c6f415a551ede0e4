package provider

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/valuation"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testEstimator() *valuation.Estimator {
	return &valuation.Estimator{Now: func() time.Time {
		return time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)
	}}
}

var newExcellent = dal.VehicleDescription{Year: 2026, Mileage: 0, Condition: 5}

type stubProvider struct {
	source dal.SourceID
	value  int
	err    error
	delay  time.Duration
	calls  atomic.Int32
}

func (s *stubProvider) Name() dal.SourceID { return s.source }

func (s *stubProvider) Quote(ctx context.Context, _ dal.VehicleDescription) (dal.SourceQuote, error) {
	s.calls.Add(1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return dal.SourceQuote{}, ctx.Err()
		}
	}
	if s.err != nil {
		return dal.SourceQuote{}, s.err
	}
	return dal.SourceQuote{Source: s.source, Value: s.value}, nil
}

func TestDemoQuotes(t *testing.T) {
	tests := []struct {
		source   dal.SourceID
		expected int
	}{
		{dal.SourceBlackBook, 40740},
		{dal.SourceKBB, 42840},
		{dal.SourceNADA, 42000},
		{dal.SourceManheim, 39900},
		{dal.SourceAuction, 39060},
	}

	for _, tc := range tests {
		t.Run(string(tc.source), func(t *testing.T) {
			q, err := NewDemo(tc.source, testEstimator()).Quote(context.Background(), newExcellent)
			require.NoError(t, err)
			assert.Equal(t, tc.source, q.Source)
			assert.Equal(t, tc.expected, q.Value)
			assert.Equal(t, dal.CurrencyUSD, q.Currency)
			assert.Equal(t, true, q.Meta["demo"])
		})
	}
}

func TestDemoBiasRange(t *testing.T) {
	for source, bias := range DemoBias {
		assert.GreaterOrEqual(t, bias, 0.93, source)
		assert.LessOrEqual(t, bias, 1.02, source)
	}
}

func TestLiveFailsWithoutZeroQuote(t *testing.T) {
	_, err := NewLive(dal.SourceKBB, "").Quote(context.Background(), newExcellent)
	var pErr *Error
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "KBB_NOT_CONFIGURED", pErr.Code)

	_, err = NewLive(dal.SourceBlackBook, "secret").Quote(context.Background(), newExcellent)
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "BLACKBOOK_NOT_IMPLEMENTED", pErr.Code)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(&stubProvider{source: dal.SourceNADA}))
	assert.Error(t, r.Register(&stubProvider{source: dal.SourceNADA}))
	assert.Len(t, r.Providers(), 1)
}

func TestQuoteAllExcludesFailures(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(&stubProvider{source: dal.SourceBlackBook, value: 20000, delay: 20 * time.Millisecond}))
	require.NoError(t, r.Register(NewLive(dal.SourceKBB, "")))
	require.NoError(t, r.Register(&stubProvider{source: dal.SourceNADA, value: 21000}))
	require.NoError(t, r.Register(&stubProvider{source: dal.SourceManheim, err: errors.New("boom")}))

	quotes, failures := r.QuoteAll(context.Background(), newExcellent)

	require.Len(t, quotes, 2)
	assert.Equal(t, dal.SourceBlackBook, quotes[0].Source)
	assert.Equal(t, dal.SourceNADA, quotes[1].Source)
	assert.Equal(t, dal.CurrencyUSD, quotes[0].Currency)

	require.Len(t, failures, 2)
	assert.Equal(t, dal.ProviderFailure{Source: dal.SourceKBB, Code: "KBB_NOT_CONFIGURED", Message: "credentials are not configured"}, failures[0])
	assert.Equal(t, "MANHEIM_FAILED", failures[1].Code)
}

func TestQuoteAllRejectsMismatchedQuotes(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(&mislabelled{}))
	require.NoError(t, r.Register(&stubProvider{source: dal.SourceNADA, value: -5}))

	quotes, failures := r.QuoteAll(context.Background(), newExcellent)
	assert.Empty(t, quotes)
	assert.Len(t, failures, 2)
}

type mislabelled struct{}

func (mislabelled) Name() dal.SourceID { return dal.SourceKBB }
func (mislabelled) Quote(context.Context, dal.VehicleDescription) (dal.SourceQuote, error) {
	return dal.SourceQuote{Source: dal.SourceNADA, Value: 100}, nil
}

func TestQuoteAllTimeout(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(&stubProvider{source: dal.SourceAuction, value: 1, delay: time.Second}))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	quotes, failures := r.QuoteAll(ctx, newExcellent)
	assert.Empty(t, quotes)
	require.Len(t, failures, 1)
	assert.Equal(t, "AUCTION_TIMEOUT", failures[0].Code)
}

func TestNewDefaultRegistry(t *testing.T) {
	demo, err := NewDefaultRegistry(ModeDemo, nil, testEstimator(), nil)
	require.NoError(t, err)
	quotes, failures := demo.QuoteAll(context.Background(), newExcellent)
	assert.Len(t, quotes, 5)
	assert.Empty(t, failures)

	live, err := NewDefaultRegistry(ModeLive, map[dal.SourceID]string{dal.SourceNADA: "key"}, testEstimator(), nil)
	require.NoError(t, err)
	quotes, failures = live.QuoteAll(context.Background(), newExcellent)
	require.Len(t, quotes, 1)
	assert.Equal(t, dal.SourceAuction, quotes[0].Source)
	assert.Len(t, failures, 4)
	for _, q := range quotes {
		assert.NotZero(t, q.Value)
	}

	_, err = NewDefaultRegistry("bogus", nil, testEstimator(), nil)
	assert.Error(t, err)
}

func TestRegistryRejectsUnknownSource(t *testing.T) {
	r := NewRegistry(nil)
	assert.Error(t, r.Register(&stubProvider{source: "Edmunds"}))
	assert.Error(t, r.Register(&stubProvider{source: ""}))
	assert.Empty(t, r.Providers())
}
