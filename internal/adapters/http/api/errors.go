package api

import (
	"errors"
	"net/http"

	"github.com/okian/touchline/internal/domain/errs"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest = errors.New("bad request")
	ErrUpgrade    = errors.New("websocket upgrade failed")
)

// statusFor maps an error to its HTTP status and response code.
func statusFor(err error) (int, string) {
	if errors.Is(err, ErrBadRequest) {
		return http.StatusBadRequest, "bad_request"
	}
	switch errs.KindOf(err) {
	case errs.ErrValidation:
		return http.StatusBadRequest, "validation"
	case errs.ErrNotFound:
		return http.StatusNotFound, "not_found"
	case errs.ErrInvalidState:
		return http.StatusConflict, "invalid_state"
	default:
		return http.StatusInternalServerError, "internal"
	}
}
