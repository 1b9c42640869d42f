package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"MarketPulse/internal/domain/models"
	xhttp "MarketPulse/pkg/http"
)

// ErrorKind classifies a whole-domain fetch failure.
type ErrorKind string

const (
	KindTimeout     ErrorKind = "timeout"
	KindRateLimited ErrorKind = "rate_limited"
	KindUpstream    ErrorKind = "upstream_error"
	KindMalformed   ErrorKind = "malformed_response"
)

// FetchError is a typed provider failure. It is always recovered by the
// aggregator's mock fallback, never surfaced to callers.
type FetchError struct {
	Provider string
	Kind     ErrorKind
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Classify wraps an adapter-level error into a FetchError, mapping
// context deadlines to timeout and HTTP status codes to their kinds.
func Classify(name string, err error) *FetchError {
	kind := KindUpstream
	var se *xhttp.StatusError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		kind = KindTimeout
	case errors.As(err, &se):
		switch {
		case se.Code == http.StatusTooManyRequests:
			kind = KindRateLimited
		case se.Code >= 500:
			kind = KindUpstream
		default:
			kind = KindMalformed
		}
	}
	return &FetchError{Provider: name, Kind: kind, Err: err}
}

// Malformed builds a malformed_response error for undecodable payloads.
func Malformed(name string, err error) *FetchError {
	return &FetchError{Provider: name, Kind: KindMalformed, Err: err}
}

// Fetcher is the uniform provider adapter capability. Fetch returns the
// domain payload, the names of sub-items that failed (partial result),
// and a non-nil error only when the whole domain failed. Adapters do not
// retry; retry policy lives in the aggregator.
type Fetcher interface {
	Domain() models.Domain
	Timeout() time.Duration
	Fetch(ctx context.Context) (models.DomainPayload, []string, error)
}

// Set holds one fetcher per domain.
type Set map[models.Domain]Fetcher

// HealthChecker is implemented by adapters that can report upstream
// reachability.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
