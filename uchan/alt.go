package uchan

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/revolsys/csp/uerr"
	"github.com/revolsys/csp/ulog"
	"github.com/revolsys/csp/usync"
)

// An input a Selector can wait on.
//
// Enable is called during the enable phase: return true if already ready,
// otherwise remember sel and wake it (sel.Schedule or sel.CloseChannel) when
// that changes.  Disable forgets sel and reports readiness.
type Selectable interface {
	Enable(sel *Selector) bool
	Disable() bool
	IsClosed() bool
}

// A Selectable that becomes ready at a known time rather than by being
// woken, such as a Timer.  WaitTime bounds how long the Selector sleeps.
type WaitBounded interface {
	Selectable
	WaitTime() time.Duration
}

// timeout meaning wait until something is ready
const NoTimeout time.Duration = -1

// ALT: wait for the first of several inputs to become ready.
//
// Each select runs Enable -> Wait -> Disable.  When several inputs are ready
// the one with the lowest index wins.  Selecting does not consume anything:
// the caller then reads from the selected input.
//
// A Selector may be reused for any number of selects, but by only one
// goroutine at a time.
type Selector struct {
	Clock clockwork.Clock // nil for the real clock

	busy            usync.AtomicBool
	lock            sync.Mutex // guards below
	wake            cond_
	scheduled       bool
	enabledChannels int
	maxWait         time.Duration
}

func NewSelector() *Selector {
	return &Selector{Clock: clockwork.NewRealClock()}
}

func (this *Selector) clock() clockwork.Clock {
	if nil == this.Clock {
		this.Clock = clockwork.NewRealClock()
	}
	return this.Clock
}

// wait until one of inputs is ready and return its index
//
// Fails with a ClosedError if every input is closed.
func (this *Selector) Select(inputs ...Selectable) (selected int, err error) {
	return this.run(nil, inputs, nil, NoTimeout, false)
}

// wait up to timeout for one of the inputs with a true guard to become
// ready.  nil guards enables every input.  NoTimeout waits forever, and 0
// polls.
//
// Returns -1 if timeout elapsed first.  Fails with a ClosedError if every
// enabled input is closed.  Panics if guards does not match inputs.
func (this *Selector) SelectGuarded(
	inputs []Selectable,
	guards []bool,
	timeout time.Duration,
) (
	selected int, err error,
) {
	return this.run(nil, inputs, guards, timeout, false)
}

// check once, without waiting, for a ready input.  -1 if none
func (this *Selector) Poll(
	inputs []Selectable,
	guards []bool,
) (
	selected int, err error,
) {
	return this.run(nil, inputs, guards, 0, true)
}

// as SelectGuarded with NoTimeout, but fail with ctx.Err() if ctx is done
// before anything is ready
func (this *Selector) SelectContext(
	ctx context.Context,
	inputs []Selectable,
	guards []bool,
) (
	selected int, err error,
) {
	return this.run(ctx, inputs, guards, NoTimeout, false)
}

// SelectGuarded over any slice of Selectables, such as []*Channel[T]
func Alt[S Selectable](
	sel *Selector,
	inputs []S,
	guards []bool,
	timeout time.Duration,
) (
	selected int, err error,
) {
	return sel.run(nil, asSelectables(inputs), guards, timeout, false)
}

// SelectContext over any slice of Selectables
func AltContext[S Selectable](
	ctx context.Context,
	sel *Selector,
	inputs []S,
	guards []bool,
) (
	selected int, err error,
) {
	return sel.run(ctx, asSelectables(inputs), guards, NoTimeout, false)
}

func asSelectables[S Selectable](inputs []S) (rv []Selectable) {
	rv = make([]Selectable, len(inputs))
	for i, in := range inputs {
		rv[i] = in
	}
	return
}

// a registered input has been written to
func (this *Selector) Schedule() {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.scheduled = true
	this.wake.broadcast()
}

// a registered input has closed.  wake once all of them have.
func (this *Selector) CloseChannel() {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.enabledChannels--
	if 0 >= this.enabledChannels {
		this.scheduled = true
		this.wake.broadcast()
	}
}

// lock order is always input then Selector, so the Selector lock is never
// held while calling into an input
func (this *Selector) run(
	ctx context.Context,
	inputs []Selectable,
	guards []bool,
	timeout time.Duration,
	poll bool,
) (
	selected int, err error,
) {
	if nil != guards && len(guards) != len(inputs) {
		ulog.Panicf("uchan: %d guards for %d inputs", len(guards), len(inputs))
	}
	if !this.busy.SetUnlessSet() {
		ulog.Panicf("uchan: Selector used by more than one goroutine")
	}
	defer this.busy.Clear()

	clock := this.clock()
	var doneC <-chan struct{}
	if nil != ctx {
		doneC = ctx.Done()
	}
	var deadline time.Time
	if 0 < timeout {
		deadline = clock.Now().Add(timeout)
	} else if 0 == timeout {
		poll = true
	}

	for {
		this.lock.Lock()
		this.scheduled = false
		this.enabledChannels = 0
		this.maxWait = NoTimeout
		this.lock.Unlock()

		ready, active, open := this.enable(inputs, guards)
		if 0 == active {
			return -1, nil
		}

		reason := woken_
		if !ready && 0 != open && !poll {
			reason = this.await(clock, deadline, doneC)
		}

		var closed int
		selected, closed = this.disable(inputs, guards)

		if 0 <= selected {
			return
		} else if closed == active {
			ulog.DebugfFor(DebugComponent, "selector: all %d inputs closed", active)
			err = uerr.Cast(&ClosedError{}, "select: all %d inputs closed", active)
			return
		} else if cancelled_ == reason {
			err = ctx.Err()
			return
		} else if poll ||
			(!deadline.IsZero() && !clock.Now().Before(deadline)) {
			return
		}
	}
}

// register with every active input, stopping at the first that is ready.
// open counts the active inputs not found closed.
func (this *Selector) enable(
	inputs []Selectable,
	guards []bool,
) (
	ready bool, active, open int,
) {
	for i, in := range inputs {
		if nil != guards && !guards[i] {
			continue
		}
		active++
		if in.IsClosed() {
			continue
		}
		open++
		if ready {
			continue
		}

		bounded, isBounded := in.(WaitBounded)
		if !isBounded {
			this.lock.Lock()
			this.enabledChannels++
			this.lock.Unlock()
		}
		if in.Enable(this) {
			ready = true
			if !isBounded {
				this.lock.Lock()
				this.enabledChannels--
				this.lock.Unlock()
			}
			continue
		}
		if isBounded {
			wait := bounded.WaitTime()
			this.lock.Lock()
			if 0 > this.maxWait || wait < this.maxWait {
				this.maxWait = wait
			}
			this.lock.Unlock()
		}
	}
	return
}

// sleep until scheduled, maxWait or deadline passes, or doneC closes
func (this *Selector) await(
	clock clockwork.Clock,
	deadline time.Time,
	doneC <-chan struct{},
) (
	reason wakeReason_,
) {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.scheduled {
		return woken_
	}

	wait := this.maxWait
	if !deadline.IsZero() {
		remaining := deadline.Sub(clock.Now())
		if 0 > remaining {
			remaining = 0
		}
		if 0 > wait || remaining < wait {
			wait = remaining
		}
	}

	var timerC <-chan time.Time
	if 0 <= wait {
		if 0 == wait {
			timerC = expiredC_
		} else {
			timer := clock.NewTimer(wait)
			defer timer.Stop()
			timerC = timer.Chan()
		}
	}
	return this.wake.wait(&this.lock, timerC, doneC)
}

// clear every registration, highest index first.  the lowest ready open
// input is selected.
func (this *Selector) disable(
	inputs []Selectable,
	guards []bool,
) (
	selected, closed int,
) {
	selected = -1
	for i := len(inputs) - 1; 0 <= i; i-- {
		if nil != guards && !guards[i] {
			continue
		}
		isReady := inputs[i].Disable()
		if inputs[i].IsClosed() {
			closed++
		} else if isReady {
			selected = i
		}
	}
	return
}
