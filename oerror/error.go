package oerror

import "fmt"

// Error is the error type returned by the knockback packages when a failure is caused by
// something other than a wrapped library error.
type Error struct {
	Err string
}

// New formats a new *Error.
func New(format string, args ...any) *Error {
	return &Error{Err: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return "knockback: " + e.Err
}
