// Package errors provides the error kinds a chat exchange can end in.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	ErrEmptyMessage     = errors.New("message is empty")
	ErrInvalidResponse  = errors.New("invalid response format")
	ErrRequestFailed    = errors.New("request failed")
	ErrApplicationError = errors.New("application error")
)

// Kind classifies how a single exchange failed.
type Kind int

const (
	KindNone Kind = iota
	KindValidation
	KindApplication
	KindTransport
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindValidation:
		return "validation"
	case KindApplication:
		return "application"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// ValidationError reports input that is never sent, such as a message that is
// empty after trimming.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message == "" {
		return "invalid input"
	}
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// Is allows comparison with sentinel errors
func (e *ValidationError) Is(target error) bool {
	if target == ErrEmptyMessage {
		return true
	}
	_, ok := target.(*ValidationError)
	return ok
}

// NewValidationError creates a new ValidationError
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// ApplicationError is returned when the backend answered with well-formed JSON
// whose status is anything other than "success".
type ApplicationError struct {
	Status   string
	Message  string
	Endpoint string
}

func (e *ApplicationError) Error() string {
	status := e.Status
	if status == "" {
		status = "<missing>"
	}
	if e.Message != "" {
		return fmt.Sprintf("application error at %s: status %s: %s", e.Endpoint, status, e.Message)
	}
	return fmt.Sprintf("application error at %s: status %s", e.Endpoint, status)
}

// Is allows comparison with sentinel errors
func (e *ApplicationError) Is(target error) bool {
	if target == ErrApplicationError {
		return true
	}
	_, ok := target.(*ApplicationError)
	return ok
}

// NewApplicationError creates a new ApplicationError
func NewApplicationError(endpoint, status, message string) *ApplicationError {
	return &ApplicationError{
		Status:   status,
		Message:  message,
		Endpoint: endpoint,
	}
}

// TransportError covers everything between "request built" and "JSON decoded":
// connection failures, transport timeouts, cancelled contexts and bodies that
// are not JSON.
type TransportError struct {
	Op         string
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	msg := fmt.Sprintf("%s failed", e.Op)
	if e.Endpoint != "" {
		msg = fmt.Sprintf("%s at %s", msg, e.Endpoint)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s [HTTP %d]", msg, e.StatusCode)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is allows comparison with sentinel errors
func (e *TransportError) Is(target error) bool {
	if target == ErrRequestFailed {
		return true
	}
	_, ok := target.(*TransportError)
	return ok
}

// NewTransportError creates a new TransportError
func NewTransportError(op, endpoint string, err error) *TransportError {
	return &TransportError{Op: op, Endpoint: endpoint, Err: err}
}

// NewInvalidBodyError creates a TransportError for a response body that could
// not be decoded as JSON.
func NewInvalidBodyError(endpoint string, statusCode int) *TransportError {
	return &TransportError{
		Op:         "decode response",
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Err:        ErrInvalidResponse,
	}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

// IsApplicationError reports whether err is an ApplicationError
func IsApplicationError(err error) bool {
	var target *ApplicationError
	return errors.As(err, &target)
}

// IsTransportError reports whether err is a TransportError
func IsTransportError(err error) bool {
	var target *TransportError
	return errors.As(err, &target)
}

// KindOf maps err onto the failure kind that decides which bubble is shown.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case IsValidationError(err):
		return KindValidation
	case IsApplicationError(err):
		return KindApplication
	case IsTransportError(err):
		return KindTransport
	default:
		return KindUnknown
	}
}

// GetStatus returns the backend status of an ApplicationError, or "".
func GetStatus(err error) string {
	var target *ApplicationError
	if errors.As(err, &target) {
		return target.Status
	}
	return ""
}

// GetEndpoint returns the endpoint recorded on a structured error, or "".
func GetEndpoint(err error) string {
	var appErr *ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Endpoint
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Endpoint
	}
	return ""
}
