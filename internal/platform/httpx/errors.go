package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors for the handler layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrBadGateway = errors.New("inventory service unavailable")
)

// StatusCoder is implemented by errors that carry an upstream HTTP status.
type StatusCoder interface {
	HTTPStatus() int
}

// RespondError maps errors to HTTP responses using RFC7807. Upstream 4xx
// statuses pass through; upstream 5xx become 502.
func RespondError(w http.ResponseWriter, err error) {
	var sc StatusCoder
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.As(err, &sc):
		status := sc.HTTPStatus()
		if status >= 400 && status < 500 {
			Problem(w, status, http.StatusText(status), err.Error())
			return
		}
		Problem(w, http.StatusBadGateway, "Bad Gateway", ErrBadGateway.Error())
	case errors.Is(err, ErrBadGateway):
		Problem(w, http.StatusBadGateway, "Bad Gateway", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
