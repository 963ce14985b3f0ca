package uchan

import (
	"errors"

	"github.com/revolsys/csp/uerr"
)

// the channel (or, for a Selector, every candidate) is closed
type ClosedError struct {
	uerr.UError
}

// connecting to a side that is already closed
//
// always caused by a ClosedError, so IsClosedError is also true
type IllegalStateError struct {
	uerr.UError
}

// is err, or anything in its chain, a ClosedError?
func IsClosedError(err error) bool {
	var closed *ClosedError
	return errors.As(err, &closed)
}

// is err, or anything in its chain, an IllegalStateError?
func IsIllegalStateError(err error) bool {
	var illegal *IllegalStateError
	return errors.As(err, &illegal)
}
