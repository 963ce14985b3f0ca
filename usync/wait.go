package usync

import (
	"time"

	"github.com/revolsys/csp/uerr"
)

type TimeoutError struct {
	uerr.UError
}

// invoke done until it returns true or error, or the timeout occurs.
// return error if done errors or timeout occurs
func Await(timeout, interval time.Duration, done func() (bool, error)) error {

	deadline, interval := setDeadline(timeout, interval)
	for {
		complete, err := done()
		if err != nil || complete {
			return err
		} else if !deadline.After(time.Now()) {
			break
		}
		time.Sleep(interval)
	}
	return uerr.Cast(&TimeoutError{}, "operation timed out after %s", timeout)
}

// invoke done() until it returns true, or the timeout occurs.
// return true iff done() returns true before timeout
func AwaitTrue(timeout, interval time.Duration, done func() bool) (rv bool) {

	deadline, interval := setDeadline(timeout, interval)
	for {
		rv = done()
		if rv || !deadline.After(time.Now()) {
			break
		}
		time.Sleep(interval)
	}
	return
}

// with no interval, poll ten times over the timeout, at most every 10ms
func setDeadline(timeout, i time.Duration,
) (deadline time.Time, interval time.Duration) {

	deadline = time.Now().Add(timeout)
	interval = i
	if 0 == interval {
		interval = timeout / 10
		if interval > 10*time.Millisecond {
			interval = 10 * time.Millisecond
		}
	}
	if interval > timeout {
		interval = timeout
	}
	if 0 >= interval {
		interval = time.Millisecond
	}
	return
}
