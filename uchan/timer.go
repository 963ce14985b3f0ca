package uchan

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/revolsys/csp/uerr"
	"gopkg.in/robfig/cron.v2"
)

// A dataless Selectable that becomes ready at its deadline and stays ready.
// Selecting it consumes nothing; Reset to reuse it.
//
// A Timer never closes.
type Timer struct {
	clock    clockwork.Clock
	deadline time.Time
}

// ready d from now
func NewTimer(d time.Duration) *Timer {
	clock := clockwork.NewRealClock()
	return &Timer{clock: clock, deadline: clock.Now().Add(d)}
}

// ready at deadline
func NewTimerAt(deadline time.Time) *Timer {
	return NewClockTimer(clockwork.NewRealClock(), deadline)
}

// ready at deadline according to clock
func NewClockTimer(clock clockwork.Clock, deadline time.Time) *Timer {
	if nil == clock {
		clock = clockwork.NewRealClock()
	}
	return &Timer{clock: clock, deadline: deadline}
}

// ready at the next time the cron spec fires, such as "0 */5 * * * *" or
// "@every 1h"
func NewCronTimer(spec string) (rv *Timer, err error) {
	return NewClockCronTimer(clockwork.NewRealClock(), spec)
}

// as NewCronTimer according to clock
func NewClockCronTimer(
	clock clockwork.Clock,
	spec string,
) (
	rv *Timer, err error,
) {
	schedule, err := cron.Parse(spec)
	if nil != err {
		err = uerr.Chainf(err, "invalid timer schedule '%s'", spec)
		return
	}
	rv = NewClockTimer(clock, time.Time{})
	rv.deadline = schedule.Next(rv.clock.Now())
	return
}

// move the deadline to d from now
func (this *Timer) Reset(d time.Duration) {
	this.deadline = this.clock.Now().Add(d)
}

func (this *Timer) Deadline() time.Time { return this.deadline }

func (this *Timer) expired() bool {
	return !this.clock.Now().Before(this.deadline)
}

// implement Selectable
func (this *Timer) Enable(*Selector) bool { return this.expired() }

// implement Selectable
func (this *Timer) Disable() bool { return this.expired() }

// implement Selectable
func (this *Timer) IsClosed() bool { return false }

// implement WaitBounded
//
// time until the deadline, or 0 if it has passed
func (this *Timer) WaitTime() (rv time.Duration) {
	rv = this.deadline.Sub(this.clock.Now())
	if 0 > rv {
		rv = 0
	}
	return
}
