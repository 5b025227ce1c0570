package client

import (
	"errors"
	"fmt"
)

// APIError represents a non-2xx response from the InterviewPro API.
// Detail carries the server's own message verbatim when one was provided.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
}

// IsStatus returns true if err (or any wrapped error) is an APIError with the
// given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// Detail extracts the server-provided message from err, or a generic
// fallback when the failure carried none. Display code renders this
// instead of raw transport errors.
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return "An error occurred. Please try again."
}
