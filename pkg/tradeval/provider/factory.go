package provider

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/valuation"
)

const (
	ModeDemo = "demo"
	ModeLive = "live"
)

// NewDefaultRegistry builds the registry for mode. In demo mode all five
// sources are served by the heuristic; in live mode the commercial sources
// are wired to their credentials from keys and Auction stays on the heuristic.
func NewDefaultRegistry(mode string, keys map[dal.SourceID]string, estimator *valuation.Estimator, log *zap.Logger) (*Registry, error) {
	r := NewRegistry(log)
	for _, source := range dal.Sources {
		var p Provider
		switch mode {
		case ModeDemo, "":
			p = NewDemo(source, estimator)
		case ModeLive:
			if source == dal.SourceAuction {
				p = NewDemo(source, estimator)
			} else {
				p = NewLive(source, keys[source])
			}
		default:
			return nil, fmt.Errorf("unknown provider mode %q", mode)
		}
		if err := r.Register(p); err != nil {
			return nil, err
		}
	}
	return r, nil
}
