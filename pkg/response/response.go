package response

import (
	"errors"
)

// Error pairs a message with the HTTP status it renders as. Voice
// dispatch reuses the same sentinels, so one value covers both
// transports.
type Error struct {
	Code int
	Err  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

// Is matches by code and message, so sentinels rebuilt across package
// boundaries still compare equal.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Err.Error() == t.Err.Error()
}

func NewError(code int, err string) error {
	return &Error{Code: code, Err: errors.New(err)}
}

// CodeOf extracts the HTTP status carried by err, if any.
func CodeOf(err error) (int, bool) {
	var respErr *Error
	if errors.As(err, &respErr) {
		return respErr.Code, true
	}
	return 0, false
}
