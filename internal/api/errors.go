package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ArgumentError is returned before any request is sent when a required argument is missing.
type ArgumentError struct {
	Arg string
}

func (e *ArgumentError) Error() string {
	if e.Arg == "" {
		return "args cannot be null"
	}
	return fmt.Sprintf("args.%s cannot be null", e.Arg)
}

// ResourceError is the normalized rejection of a resource call.
// Status is 0 when the request never produced an HTTP response.
type ResourceError struct {
	ErrorMsg string
	Data     any
	Status   int
	URL      string
	Err      error
}

func (e *ResourceError) Error() string {
	msg := e.ErrorMsg
	if msg == "" {
		msg = "request failed"
	}
	if e.Status == 0 {
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", msg, e.Err)
		}
		return msg
	}
	if detail := exceptionMessage(e.Data); detail != "" {
		return fmt.Sprintf("%s (status %d): %s", msg, e.Status, detail)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s (status %d): %v", msg, e.Status, e.Err)
	}
	return fmt.Sprintf("%s (status %d)", msg, e.Status)
}

func (e *ResourceError) Unwrap() error {
	return e.Err
}

// AuthError represents a failed re-authentication after a 401.
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("authentication error: %s", e.Reason)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// IsArgumentError checks if the error is a missing-argument error.
func IsArgumentError(err error) bool {
	var e *ArgumentError
	return errors.As(err, &e)
}

// IsAuthError checks if the error is an authentication error or an unrecovered 401.
func IsAuthError(err error) bool {
	var e *AuthError
	if errors.As(err, &e) {
		return true
	}
	return StatusOf(err) == http.StatusUnauthorized
}

// IsForbiddenError checks if the server refused the request with 403.
func IsForbiddenError(err error) bool {
	return StatusOf(err) == http.StatusForbidden
}

// IsNotFoundError checks if the error indicates a resource was not found.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var resErr *ResourceError
	if errors.As(err, &resErr) {
		return resErr.Status == http.StatusNotFound
	}
	return strings.Contains(strings.ToLower(err.Error()), "not found")
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var resErr *ResourceError
	if errors.As(err, &resErr) {
		return resErr.Status
	}
	return 0
}

// exceptionMessage extracts the server-supplied detail from an error payload.
func exceptionMessage(data any) string {
	m, ok := data.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range []string{"ExceptionMessage", "Message", "message"} {
		if s, ok := m[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}
