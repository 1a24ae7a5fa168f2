package httpadapter

import (
	"net/http"

	"github.com/documind/docrouter/internal/core/domain"
)

func mapErrorToHTTPStatus(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrUnsupportedFormat):
		return http.StatusUnsupportedMediaType
	case domain.IsKind(err, domain.ErrEmptyDocument),
		domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrNotFound):
		return http.StatusNotFound
	case domain.IsKind(err, domain.ErrBusy):
		return http.StatusConflict
	case domain.IsKind(err, domain.ErrUpstreamUnavailable):
		return http.StatusServiceUnavailable
	case domain.IsKind(err, domain.ErrMalformedResponse),
		domain.IsKind(err, domain.ErrSchemaViolation),
		domain.IsKind(err, domain.ErrInvalidTheme):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
