// Package apierr carries an HTTP status and a stable machine-readable code
// alongside a wrapped cause. The catalog services attach these to
// authorization and workflow failures; handlers unwrap them with errors.As
// and write the envelope without re-deriving the status.
package apierr

import "fmt"

type Error struct {
	Status int
	Code   string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	if e.Code != "" {
		return e.Code
	}
	if e.Status != 0 {
		return fmt.Sprintf("api error (%d)", e.Status)
	}
	return "api error"
}

// Unwrap exposes the cause so errors.Is sees through to domain sentinels.
func (e *Error) Unwrap() error { return e.Err }

func New(status int, code string, err error) *Error {
	return &Error{Status: status, Code: code, Err: err}
}
