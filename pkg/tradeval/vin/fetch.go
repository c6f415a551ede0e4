package vin

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultTimeout     = 15 * time.Second
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 250 * time.Millisecond
	DefaultMaxDelay    = 2 * time.Second

	maxBodyBytes = 1 << 20
)

// statusError is a non-2xx upstream response.
type statusError struct {
	status int
}

func (e *statusError) Error() string { return fmt.Sprintf("unexpected status %d", e.status) }

func (e *statusError) retryable() bool {
	return e.status == http.StatusTooManyRequests || e.status >= 500
}

// Fetcher performs GET requests with a per-request timeout and bounded
// exponential backoff between attempts.
type Fetcher struct {
	Client      *http.Client
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Log         *zap.Logger
}

// NewFetcher returns a Fetcher using the default retry policy.
func NewFetcher(timeout time.Duration, maxAttempts int, log *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		Client:      &http.Client{Timeout: timeout},
		MaxAttempts: maxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
		Log:         log,
	}
}

// Get returns the body of a 2xx response to url. Network errors, 429 and 5xx
// are retried; any other status fails immediately.
func (f *Fetcher) Get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	attempts := f.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for i := 0; i < attempts; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(f.backoff(i)):
			}
		}

		body, err := f.get(ctx, url, header)
		if err == nil {
			return body, nil
		}
		last = err

		var sErr *statusError
		if errors.As(err, &sErr) && !sErr.retryable() {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, err
		}
		f.Log.Debug("vin upstream attempt failed",
			zap.String("url", url),
			zap.Int("attempt", i+1),
			zap.Error(err))
	}
	return nil, last
}

func (f *Fetcher) backoff(attempt int) time.Duration {
	d := f.BaseDelay * time.Duration(1<<(attempt-1))
	if f.MaxDelay > 0 && d > f.MaxDelay {
		d = f.MaxDelay
	}
	return d
}

func (f *Fetcher) get(ctx context.Context, url string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &statusError{status: resp.StatusCode}
	}
	return body, nil
}

// failureCode turns a fetch error into an errors-list entry for backend.
func failureCode(backend string, err error) string {
	var sErr *statusError
	if errors.As(err, &sErr) {
		return fmt.Sprintf("%s_http_%d", backend, sErr.status)
	}
	var nErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nErr) && nErr.Timeout()) {
		return backend + "_timeout"
	}
	return backend + "_network_error"
}
