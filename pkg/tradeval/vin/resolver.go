// Package vin resolves Vehicle Identification Numbers through an ordered chain
// of decoder backends, falling back to the next backend on any failure.
package vin

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

// Resolver tries its decoders in order and returns the first usable result.
type Resolver struct {
	decoders []Decoder
	cache    *lru.Cache[string, dal.VinDecodeResult]
	log      *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver) error

// WithCache keeps up to size usable results in memory, keyed by sanitized VIN.
func WithCache(size int) Option {
	return func(r *Resolver) error {
		if size <= 0 {
			return nil
		}
		c, err := lru.New[string, dal.VinDecodeResult](size)
		if err != nil {
			return err
		}
		r.cache = c
		return nil
	}
}

// WithLogger sets the resolver logger.
func WithLogger(log *zap.Logger) Option {
	return func(r *Resolver) error {
		if log != nil {
			r.log = log
		}
		return nil
	}
}

// NewResolver returns a resolver over decoders, highest priority first.
func NewResolver(decoders []Decoder, opts ...Option) (*Resolver, error) {
	r := &Resolver{
		decoders: append([]Decoder(nil), decoders...),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Chain builds the default priority list: the commercial decoder when a key
// is configured, then vPIC.
func Chain(commercialURL, commercialKey, vpicURL string, fetcher *Fetcher) []Decoder {
	var decoders []Decoder
	if commercialKey != "" && commercialURL != "" {
		decoders = append(decoders, NewCommercial(commercialURL, commercialKey, fetcher))
	}
	return append(decoders, NewVPIC(vpicURL, fetcher))
}

// Decode sanitizes and validates raw, then walks the decoder chain. It never
// fails: problems are reported in the result's Errors. When every decoder
// fails, the last decoder's result is returned as is.
func (r *Resolver) Decode(ctx context.Context, raw string) dal.VinDecodeResult {
	vin := Sanitize(raw)
	if !ValidLength(vin) {
		return dal.VinDecodeResult{VIN: vin, Errors: []string{ErrInvalidLength}}
	}

	if r.cache != nil {
		if cached, ok := r.cache.Get(vin); ok {
			return cached
		}
	}

	last := dal.VinDecodeResult{VIN: vin, Errors: []string{"no_decoders"}}
	for _, d := range r.decoders {
		result := r.attempt(ctx, d, vin)
		if result.Usable() {
			if r.cache != nil {
				r.cache.Add(vin, result)
			}
			return result
		}
		r.log.Info("vin decoder fell through",
			zap.String("decoder", d.Name()),
			zap.String("vin", vin),
			zap.Strings("errors", result.Errors))
		last = result
	}
	return last
}

// attempt runs one decoder, converting a returned error into an errors entry.
func (r *Resolver) attempt(ctx context.Context, d Decoder, vin string) dal.VinDecodeResult {
	result, err := d.Decode(ctx, vin)
	if err != nil {
		code := d.Name() + "_failed"
		if errors.Is(err, ErrNotConfigured) {
			code = d.Name() + "_not_configured"
		}
		r.log.Warn("vin decoder error", zap.String("decoder", d.Name()), zap.Error(err))
		return dal.VinDecodeResult{VIN: vin, Errors: []string{code}}
	}
	if result.VIN == "" {
		result.VIN = vin
	}
	if len(result.Errors) == 0 && !identified(result) {
		result.Errors = []string{d.Name() + "_incomplete"}
	}
	return result
}
