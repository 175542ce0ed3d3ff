package gw2

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrStatus = errors.New("unexpected api status")
	ErrNotSVG = errors.New("emblem response is not svg")
)

// StatusError carries the HTTP status of a failed API call. It matches
// ErrStatus under errors.Is.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected api status: %d", e.Code)
}

// Is lets errors.Is(err, ErrStatus) succeed for any status code.
func (e *StatusError) Is(target error) bool { return target == ErrStatus }

func statusError(code int) error {
	return &StatusError{Code: code}
}

// isStatus reports whether err is a StatusError with the given code.
func isStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}
