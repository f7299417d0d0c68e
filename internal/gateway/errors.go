package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// NetworkError reports a request that never produced a usable response:
// dial failures, timeouts, truncated or undecodable bodies.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError reports a non-2xx answer from the backend.
type APIError struct {
	Op      string
	Status  int
	Message string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Op, e.Status, msg)
}

// ValidationError reports input rejected before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// NetworkErrorText is what users see for transport failures; the detail goes
// to the log.
const NetworkErrorText = "Network Error"

// Describe returns the most useful human-readable text for err. API errors
// yield the backend's own message and validation errors their reason.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Error()
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Error()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return NetworkErrorText
	}
	return err.Error()
}
