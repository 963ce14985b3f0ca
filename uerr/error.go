// Package uerr chains errors and lets packages declare their own error kinds
// that still work with errors.Is / errors.As.
//
// To chain from a cause:
//
//	err := uerr.Chainf(cause, "reading %s", name)
//
// To declare an error kind:
//
//	type ClosedError struct {
//		uerr.UError
//	}
//
//	err := uerr.Cast(&ClosedError{}, "channel %s closed", name)
//	err = uerr.Recast(&OtherError{}, err, "connect to %s", name)
//
//	var closed *ClosedError
//	if errors.As(err, &closed) { ... }
package uerr

import (
	"fmt"
	"reflect"
)

type UError struct {
	Message string
	Cause   error
}

type chainable_ interface {
	Chainf(cause error, format string, args ...any) *UError
}

// implement error
func (this *UError) Error() string {
	return this.Message
}

// implement errors.Unwrap so errors.Is / errors.As walk the chain
func (this *UError) Unwrap() error {
	return this.Cause
}

// create a new error based on cause, adding context
func Chainf(cause error, format string, args ...any) *UError {
	return (&UError{}).Chainf(cause, format, args...)
}

// fill in an error kind that embeds UError
//
//	err := uerr.Cast(&MyError{}, "bad thing %d", 5)
func Cast(as error, format string, args ...any) error {
	return Recast(as, nil, format, args...)
}

// fill in an error kind that embeds UError, chained from cause
func Recast(as, cause error, format string, args ...any) error {
	chainable, ok := as.(chainable_)
	if !ok {
		return Chainf(cause, "UNCHAINABLE ERROR: "+format, args...)
	}
	chainable.Chainf(cause, format, args...)
	return as
}

// true if err is nil or a typed nil pointer
func IsNil(err error) bool {
	if nil == err {
		return true
	}
	v := reflect.ValueOf(err)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice,
		reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// set the cause (if non-nil) and message of this
func (this *UError) Chainf(
	cause error,
	format string, args ...any,
) *UError {

	if IsNil(cause) {
		cause = nil
	}
	this.Cause = cause

	var causeMsg string
	if nil != cause {
		causeMsg = cause.Error()
		if 0 == len(causeMsg) {
			causeMsg = fmt.Sprintf("%T", cause)
		}
	}

	if 0 != len(format) {
		msg := fmt.Sprintf(format, args...)
		if nil == cause {
			this.Message = msg
		} else {
			this.Message = msg + ", caused by: " + causeMsg
		}
	} else {
		this.Message = causeMsg
	}
	return this
}
