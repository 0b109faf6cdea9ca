package linode

import (
	"errors"
	"net/http"

	"github.com/linode/linodego"
)

// IsNotFound reports whether err is the API's 404 response.
func IsNotFound(err error) bool {
	return hasCode(err, http.StatusNotFound)
}

// IsInvalidInput reports whether the API rejected the request parameters.
// These failures are fatal and not worth retrying.
func IsInvalidInput(err error) bool {
	return hasCode(err, http.StatusBadRequest)
}

// IsRateLimited reports whether the API throttled the request.
func IsRateLimited(err error) bool {
	return hasCode(err, http.StatusTooManyRequests)
}

func hasCode(err error, code int) bool {
	var apiErr *linodego.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
