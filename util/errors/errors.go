package errors

import (
	"errors"
)

// ErrTimeout is returned when an operation did not complete within its
// deadline.
var ErrTimeout = errors.New("timeout")

// ErrClosed is returned by Simulation operations attempted after Stop
// has torn down the endpoints.
var ErrClosed = errors.New("simulation closed")
