package provider

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

// Registry holds the providers consulted for every valuation, in registration order.
type Registry struct {
	providers []Provider
	log       *zap.Logger
}

// NewRegistry returns an empty registry.
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{log: log}
}

// Register adds p. Unknown sources and duplicate sources are errors.
func (r *Registry) Register(p Provider) error {
	if !p.Name().Valid() {
		return fmt.Errorf("unknown provider source %q", p.Name())
	}
	for _, existing := range r.providers {
		if existing.Name() == p.Name() {
			return fmt.Errorf("provider %s already registered", p.Name())
		}
	}
	r.providers = append(r.providers, p)
	return nil
}

// Providers returns the registered providers.
func (r *Registry) Providers() []Provider {
	return append([]Provider(nil), r.providers...)
}

// QuoteAll asks every provider for a quote concurrently. Providers are
// independent: a failing provider is reported in failures and excluded from
// quotes, it never cancels the others. Both slices follow registration order.
func (r *Registry) QuoteAll(ctx context.Context, v dal.VehicleDescription) ([]dal.SourceQuote, []dal.ProviderFailure) {
	type outcome struct {
		quote dal.SourceQuote
		err   error
	}
	outcomes := make([]outcome, len(r.providers))

	var eg errgroup.Group
	for i, p := range r.providers {
		i, p := i, p
		eg.Go(func() error {
			q, err := p.Quote(ctx, v)
			if err == nil && q.Source != p.Name() {
				err = fmt.Errorf("provider %s returned quote for %s", p.Name(), q.Source)
			}
			if err == nil && q.Value < 0 {
				err = fmt.Errorf("provider %s returned negative value %d", p.Name(), q.Value)
			}
			outcomes[i] = outcome{quote: q, err: err}
			return nil
		})
	}
	_ = eg.Wait()

	quotes := make([]dal.SourceQuote, 0, len(outcomes))
	var failures []dal.ProviderFailure
	for i, o := range outcomes {
		source := r.providers[i].Name()
		if o.err != nil {
			failure := AsFailure(source, o.err)
			r.log.Warn("provider quote failed",
				zap.String("source", string(source)),
				zap.String("code", failure.Code),
				zap.Error(o.err))
			failures = append(failures, failure)
			continue
		}
		if o.quote.Currency == "" {
			o.quote.Currency = dal.CurrencyUSD
		}
		quotes = append(quotes, o.quote)
	}
	return quotes, failures
}
