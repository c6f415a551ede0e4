package provider

import (
	"context"
	"math"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/valuation"
)

// DemoBias is the fixed multiplier each demo provider applies to the heuristic.
var DemoBias = map[dal.SourceID]float64{
	dal.SourceBlackBook: 0.97,
	dal.SourceKBB:       1.02,
	dal.SourceNADA:      1.00,
	dal.SourceManheim:   0.95,
	dal.SourceAuction:   0.93,
}

// Demo is a test-fixture provider that scales the shared heuristic estimate.
// It models inter-provider disagreement only, not market behaviour.
type Demo struct {
	source    dal.SourceID
	bias      float64
	estimator *valuation.Estimator
}

// NewDemo returns a demo provider for source using its default bias.
func NewDemo(source dal.SourceID, estimator *valuation.Estimator) *Demo {
	bias, ok := DemoBias[source]
	if !ok {
		bias = 1.0
	}
	return &Demo{source: source, bias: bias, estimator: estimator}
}

func (d *Demo) Name() dal.SourceID { return d.source }

func (d *Demo) Quote(ctx context.Context, v dal.VehicleDescription) (dal.SourceQuote, error) {
	if err := ctx.Err(); err != nil {
		return dal.SourceQuote{}, err
	}
	base := d.estimator.Estimate(v)
	return dal.SourceQuote{
		Source:   d.source,
		Value:    int(math.Round(float64(base) * d.bias)),
		Currency: dal.CurrencyUSD,
		Meta: map[string]any{
			"demo": true,
			"bias": d.bias,
		},
	}, nil
}
