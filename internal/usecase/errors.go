package usecase

import "fmt"

type ErrorCode string

const (
	ErrorUpstreamRejected ErrorCode = "UPSTREAM_REJECTED"
	ErrorInternal         ErrorCode = "INTERNAL_ERROR"
)

// Error is the relay failure type. For ErrorUpstreamRejected, Status and
// Detail carry the upstream status code and raw response text.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
	Status int
	Detail string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("usecase: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("usecase: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Cause returns the message of the underlying error, falling back to Reason.
func (e *Error) Cause() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Reason
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}
