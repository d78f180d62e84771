package chat

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies why a model call produced no usable text.
type ErrorKind string

const (
	KindRateLimited       ErrorKind = "rate_limited"
	KindUnauthorized      ErrorKind = "unauthorized"
	KindForbidden         ErrorKind = "forbidden"
	KindServerError       ErrorKind = "server_error"
	KindEmptyResponse     ErrorKind = "empty_response"
	KindTruncatedResponse ErrorKind = "truncated_response"
)

// ModelError is returned by ModelClient and by provider adapters.
type ModelError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ModelError) Error() string {
	msg := string(e.Kind)
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// KindForStatus maps a non-2xx provider status onto an ErrorKind.
// The provider answers 400 for a malformed or invalid key.
func KindForStatus(status int) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusBadRequest, http.StatusUnauthorized:
		return KindUnauthorized
	case http.StatusForbidden:
		return KindForbidden
	default:
		return KindServerError
	}
}

// NewStatusError builds a ModelError for a failed transport call.
func NewStatusError(status int, message string, err error) *ModelError {
	return &ModelError{Kind: KindForStatus(status), StatusCode: status, Message: message, Err: err}
}

// AsModelError extracts a ModelError from err. Errors that are not
// ModelErrors are reported as server errors.
func AsModelError(err error) *ModelError {
	if err == nil {
		return nil
	}
	var modelErr *ModelError
	if errors.As(err, &modelErr) {
		return modelErr
	}
	return &ModelError{Kind: KindServerError, Err: err}
}
