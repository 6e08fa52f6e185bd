// ABOUTME: Error types for gateway API responses
// ABOUTME: Carries status codes and server messages through to callers

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Error reports a non-2xx response from the gateway.
type Error struct {
	StatusCode int
	Message    string // server-provided message, if the body carried one
	Body       string // raw response body
	RequestID  string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gateway returned %d", e.StatusCode)
}

// IsStatus reports whether err is a gateway *Error with the given
// status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsNotFound reports whether err is a gateway 404.
func IsNotFound(err error) bool {
	return IsStatus(err, http.StatusNotFound)
}

// newError builds an *Error from a non-2xx response. The body is
// parsed as the gateway's JSON error envelope when possible and kept
// raw otherwise; garbage bodies never cause a secondary failure.
func newError(resp *http.Response, requestID string) *Error {
	apiErr := &Error{
		StatusCode: resp.StatusCode,
		RequestID:  requestID,
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}
	apiErr.Body = strings.TrimSpace(string(data))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			apiErr.Message = payload.Error
		} else {
			apiErr.Message = payload.Message
		}
	}
	return apiErr
}
