package renderer

import (
	"errors"
	"fmt"
)

// ErrInvalidState is returned when an operation is called outside the
// frame bracket or before a font has been set.
var ErrInvalidState = errors.New("renderer: invalid state")

// BackendError wraps a failed Canvas or surface call.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("render backend: %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendErr(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}
