package gemini

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/documind/docrouter/internal/core/domain"
	"github.com/documind/docrouter/internal/infrastructure/resilience"
)

func classifyTransportError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if isRetryableHTTPStatus(statusErr.StatusCode) {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

func isRetryableHTTPStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}

// wrapUpstream maps exhausted transport failures onto
// ErrUpstreamUnavailable. A context cancellation passes through so the
// caller can tell a superseded request from a dead capability; pre-flight
// domain errors are already typed and pass through as well.
func wrapUpstream(operation string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	if domain.IsKind(err, domain.ErrEmptyDocument) || domain.IsKind(err, domain.ErrUnsupportedFormat) {
		return err
	}
	return domain.WrapError(domain.ErrUpstreamUnavailable, operation, err)
}
