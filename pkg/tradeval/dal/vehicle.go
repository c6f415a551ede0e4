package dal

// VehicleDescription defines the inputs to a valuation request
type VehicleDescription struct {
	Year      int      `json:"year" validate:"required,min=1900"`
	Mileage   int      `json:"mileage" validate:"min=0"`
	Condition int      `json:"condition" validate:"required,min=1,max=5"`
	Options   []string `json:"options,omitempty" validate:"dive,required"`
	VIN       string   `json:"vin,omitempty"`
}

// SourceID identifies a valuation provider
type SourceID string

const (
	SourceBlackBook SourceID = "BlackBook"
	SourceKBB       SourceID = "KBB"
	SourceNADA      SourceID = "NADA"
	SourceManheim   SourceID = "Manheim"
	SourceAuction   SourceID = "Auction"
)

// Sources lists every known provider in display order.
var Sources = []SourceID{SourceBlackBook, SourceKBB, SourceNADA, SourceManheim, SourceAuction}

// Valid reports whether s is one of the known providers.
func (s SourceID) Valid() bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// CurrencyUSD is the only currency quotes are expressed in.
const CurrencyUSD = "USD"

// SourceQuote defines one provider's opinion of a vehicle's value
type SourceQuote struct {
	Source   SourceID       `json:"source"`
	Value    int            `json:"value"`
	Currency string         `json:"currency"`
	Meta     map[string]any `json:"meta,omitempty"`
}

// Confidence is a coarse dispersion label for an aggregate
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// AggregateResult defines the combined estimate over a set of quotes
type AggregateResult struct {
	Low        int        `json:"low"`
	High       int        `json:"high"`
	Avg        int        `json:"avg"`
	Confidence Confidence `json:"confidence"`
}

// ProviderFailure records a provider that could not produce a quote
type ProviderFailure struct {
	Source  SourceID `json:"source"`
	Code    string   `json:"code"`
	Message string   `json:"message,omitempty"`
}

// ValuationResponse defines an HTTP response struct for a valuation request
type ValuationResponse struct {
	RequestID string             `json:"request_id"`
	Vehicle   VehicleDescription `json:"vehicle"`
	Quotes    []SourceQuote      `json:"quotes"`
	Failures  []ProviderFailure  `json:"failures,omitempty"`
	Summary   *AggregateResult   `json:"summary"`
}
