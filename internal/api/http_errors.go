package api

import (
	"errors"
	"net/http"

	"github.com/hugo-lorenzo-mato/veritas/internal/core"
)

// httpStatusForDomainError maps a core.DomainError category to an HTTP status.
func httpStatusForDomainError(err error) (int, bool) {
	var domErr *core.DomainError
	if !errors.As(err, &domErr) || domErr == nil {
		return 0, false
	}

	switch domErr.Category {
	case core.ErrCatValidation:
		return http.StatusUnprocessableEntity, true
	case core.ErrCatNotFound:
		return http.StatusNotFound, true
	case core.ErrCatConflict:
		return http.StatusConflict, true
	case core.ErrCatSerialization:
		return http.StatusBadRequest, true
	default:
		return http.StatusInternalServerError, true
	}
}

// respondDomainError writes an error response, mapping domain categories to
// HTTP statuses and hiding internal details for 5xx responses.
func (s *Server) respondDomainError(w http.ResponseWriter, err error) {
	status, ok := httpStatusForDomainError(err)
	if !ok {
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
		respondError(w, status, "internal server error")
		return
	}
	respondError(w, status, err.Error())
}
