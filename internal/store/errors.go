package store

import "fmt"

// Error is the structured failure every store operation returns instead of
// panicking or wrapping a raw driver error: a last-error message paired
// with a last-error code. Code reuses ordinary HTTP-style numbers so the
// dispatcher can translate a store failure straight into a RESPONSE_ERROR
// frame.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("store: %s (code %d)", e.Message, e.Code)
}

func BadRequest(format string, args ...any) *Error {
	return &Error{Code: 400, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(format string, args ...any) *Error {
	return &Error{Code: 401, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...any) *Error {
	return &Error{Code: 403, Message: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...any) *Error {
	return &Error{Code: 404, Message: fmt.Sprintf(format, args...)}
}

func Conflict(format string, args ...any) *Error {
	return &Error{Code: 409, Message: fmt.Sprintf(format, args...)}
}

func Internal(format string, args ...any) *Error {
	return &Error{Code: 500, Message: fmt.Sprintf(format, args...)}
}
