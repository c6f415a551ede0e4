// Package provider defines the valuation provider contract, its demo and live
// adapters, and a registry that fans a valuation request out to all of them.
package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nekruzvatanshoev/tradeval/pkg/tradeval/dal"
)

// Provider produces exactly one quote for a vehicle.
type Provider interface {
	Name() dal.SourceID
	Quote(ctx context.Context, v dal.VehicleDescription) (dal.SourceQuote, error)
}

// Error is a structured provider failure.
type Error struct {
	Source    dal.SourceID
	Code      string
	Message   string
	Retryable bool
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NotConfigured returns the failure for a provider whose credentials are absent.
func NotConfigured(source dal.SourceID) *Error {
	return &Error{
		Source:  source,
		Code:    errorCode(source, "NOT_CONFIGURED"),
		Message: "credentials are not configured",
	}
}

// NotImplemented returns the failure for a provider with no integration.
func NotImplemented(source dal.SourceID) *Error {
	return &Error{
		Source:  source,
		Code:    errorCode(source, "NOT_IMPLEMENTED"),
		Message: "integration is not available",
	}
}

func errorCode(source dal.SourceID, suffix string) string {
	return strings.ToUpper(string(source)) + "_" + suffix
}

// AsFailure converts any provider error into a reportable failure.
func AsFailure(source dal.SourceID, err error) dal.ProviderFailure {
	var pErr *Error
	if errors.As(err, &pErr) {
		return dal.ProviderFailure{Source: source, Code: pErr.Code, Message: pErr.Message}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dal.ProviderFailure{Source: source, Code: errorCode(source, "TIMEOUT"), Message: err.Error()}
	}
	return dal.ProviderFailure{Source: source, Code: errorCode(source, "FAILED"), Message: err.Error()}
}
