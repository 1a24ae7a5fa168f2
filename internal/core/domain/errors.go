package domain

import (
	"errors"
	"fmt"
)

var (
	// Pre-flight failures, raised before any network call.
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyDocument     = errors.New("empty document")

	// Capability call failures.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrMalformedResponse   = errors.New("malformed response")
	ErrSchemaViolation     = errors.New("schema violation")
	ErrInvalidTheme        = errors.New("invalid theme")

	ErrNotFound = errors.New("not found")
	ErrBusy     = errors.New("classification already in flight")

	ErrInvalidInput = errors.New("invalid input")
)

// WrapError preserves typed semantic errors with operation context.
func WrapError(kind error, operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", operation, kind, err)
}

func IsKind(err error, kind error) bool {
	return errors.Is(err, kind)
}
