package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Machine-readable codes carried in the error envelope.
const (
	CodeNotFound              = "NOT_FOUND"
	CodeDuplicateSubscription = "DUPLICATE_SUBSCRIPTION"
	CodeValidation            = "VALIDATION_ERROR"
	CodeStore                 = "STORE_ERROR"
	CodeNotImplemented        = "NOT_IMPLEMENTED"
)

// Error is the service error taxonomy: a code for machines, a message for
// humans, and the original cause retained for logs.
type Error struct {
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

func NotFound(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Duplicate(format string, args ...interface{}) *Error {
	return &Error{Code: CodeDuplicateSubscription, Message: fmt.Sprintf(format, args...)}
}

func Validation(format string, args ...interface{}) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// Store wraps a data-access failure, keeping the driver error as context.
func Store(cause error, format string, args ...interface{}) *Error {
	return &Error{Code: CodeStore, Message: fmt.Sprintf(format, args...), cause: cause}
}

func NotImplemented(format string, args ...interface{}) *Error {
	return &Error{Code: CodeNotImplemented, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the taxonomy code from err. Unrecognised errors are treated
// as infrastructure failures.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeStore
}

func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}

// Message returns the human-readable message without the wrapped cause.
// Untyped errors get a generic message so driver detail never reaches clients.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "internal error"
}

// HTTPStatus maps a taxonomy code onto the status the handler should write.
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeDuplicateSubscription:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotImplemented:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
