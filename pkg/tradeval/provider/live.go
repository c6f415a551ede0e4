package provider

import (
	"context"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

// Live is a placeholder for a commercial pricing integration. It never
// returns a quote: without credentials it reports NOT_CONFIGURED, with them
// NOT_IMPLEMENTED. Either way the failure reaches the caller.
type Live struct {
	source dal.SourceID
	apiKey string
}

// NewLive returns a live provider for source authenticated with apiKey.
func NewLive(source dal.SourceID, apiKey string) *Live {
	return &Live{source: source, apiKey: apiKey}
}

func (l *Live) Name() dal.SourceID { return l.source }

func (l *Live) Quote(ctx context.Context, _ dal.VehicleDescription) (dal.SourceQuote, error) {
	if err := ctx.Err(); err != nil {
		return dal.SourceQuote{}, err
	}
	if l.apiKey == "" {
		return dal.SourceQuote{}, NotConfigured(l.source)
	}
	return dal.SourceQuote{}, NotImplemented(l.source)
}
