package valuation

import (
	"math"
	"slices"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

const (
	trimFraction = 0.20
	displayBand  = 500

	highConfidenceStdev   = 400.0
	mediumConfidenceStdev = 900.0
)

// Aggregate combines quotes into a trimmed-mean estimate with a confidence label
// and a fixed display band. It returns nil when there are no quotes.
//
// The input is treated as an unordered bag: values are sorted ascending before
// trimming, so arrival order never affects the result.
func Aggregate(quotes []dal.SourceQuote) *dal.AggregateResult {
	if len(quotes) == 0 {
		return nil
	}

	values := make([]int, 0, len(quotes))
	for _, q := range quotes {
		values = append(values, q.Value)
	}
	slices.Sort(values)

	trimmed := trim(values)

	var sum float64
	for _, v := range trimmed {
		sum += float64(v)
	}
	avg := roundHalfUp(sum / float64(len(trimmed)))

	var variance float64
	for _, v := range trimmed {
		d := float64(v - avg)
		variance += d * d
	}
	variance /= float64(len(trimmed))

	return &dal.AggregateResult{
		Low:        avg - displayBand,
		High:       avg + displayBand,
		Avg:        avg,
		Confidence: confidenceFor(math.Sqrt(variance)),
	}
}

// trim drops k values from each end of a sorted slice, k being 20% of the
// count rounded to nearest. At least one value always survives.
func trim(sorted []int) []int {
	n := len(sorted)
	k := roundHalfUp(float64(n) * trimFraction)
	end := max(n-k, k+1)
	return sorted[k:end]
}

func confidenceFor(stdev float64) dal.Confidence {
	switch {
	case stdev < highConfidenceStdev:
		return dal.ConfidenceHigh
	case stdev < mediumConfidenceStdev:
		return dal.ConfidenceMedium
	default:
		return dal.ConfidenceLow
	}
}
