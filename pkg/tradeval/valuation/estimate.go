package valuation

import (
	"math"
	"time"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

const (
	baseValue         = 35000.0
	depreciationYear  = 2000.0
	floorValue        = 2000.0
	milesPerYear      = 12000
	mileagePer1000USD = 50.0
	optionValue       = 500.0
)

var conditionMultipliers = map[int]float64{
	1: 0.70,
	2: 0.85,
	3: 1.00,
	4: 1.10,
	5: 1.20,
}

// Estimator computes the baseline heuristic value used by the demo providers
type Estimator struct {
	// Now returns the current time; the model year is compared against its year.
	Now func() time.Time
}

// NewEstimator returns an Estimator on the wall clock
func NewEstimator() *Estimator {
	return &Estimator{Now: time.Now}
}

// Estimate maps a vehicle description to a baseline USD value.
func (e *Estimator) Estimate(v dal.VehicleDescription) int {
	now := time.Now
	if e != nil && e.Now != nil {
		now = e.Now
	}

	age := now().Year() - v.Year
	if age < 0 {
		age = 0
	}

	expected := age * milesPerYear
	adjustment := float64(v.Mileage-expected) / 1000 * mileagePer1000USD

	base := baseValue - float64(age)*depreciationYear - adjustment
	if base < floorValue {
		base = floorValue
	}

	multiplier, ok := conditionMultipliers[v.Condition]
	if !ok {
		multiplier = 1.0
	}

	return roundHalfUp(base*multiplier + float64(len(v.Options))*optionValue)
}

// roundHalfUp rounds x to the nearest integer, ties towards +Inf.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}
