package domain

import (
	"errors"
	"fmt"
)

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// TransportError is a network or server level failure reaching the backend:
// the call never produced a well-formed job representation. During polling it
// is retried on the next tick; on the initial submit it is fatal. A job that
// reports status "failed" is NOT a transport error.
type TransportError struct {
	StatusCode int // HTTP-style status; 0 when the endpoint was unreachable
	Message    string
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport: %s", e.Message)
	}
	return fmt.Sprintf("transport: http %d: %s", e.StatusCode, e.Message)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
