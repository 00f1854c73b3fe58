package api

import (
	"errors"
	"fmt"
)

// NetworkErrorText is shown when a request failed without a server message.
const NetworkErrorText = "Network error occurred"

// ErrIncompatibleServer is returned by CheckHealth when the server's major
// version differs from the one this client speaks.
var ErrIncompatibleServer = errors.New("incompatible server version")

// Error is a non-2xx response from the study API.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: status %d: %s", e.Status, e.Message)
}

// Message returns the server-provided error text for err, or
// NetworkErrorText when the failure carried none.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return NetworkErrorText
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Status == 404
}

// StatusCode returns the HTTP status of an API error, or 0 for failures
// that never got a response.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
