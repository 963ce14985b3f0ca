package uchan

import (
	"sync"
	"time"
)

type wakeReason_ int

const (
	woken_ wakeReason_ = iota
	timedOut_
	cancelled_
)

// a broadcast condition guarded by its owner's mutex
//
// unlike sync.Cond, a waiter can also give up when a timer fires or a
// done chan closes.  waiters must recheck their predicate after waking.
type cond_ struct {
	ch chan struct{}
}

// wake all current waiters.  lock must be held
func (this *cond_) broadcast() {
	if nil != this.ch {
		close(this.ch)
		this.ch = nil
	}
}

// release lock until broadcast, timerC fires, or doneC closes, then
// reacquire it.  nil timerC or doneC never fire.  lock must be held
func (this *cond_) wait(
	lock *sync.Mutex,
	timerC <-chan time.Time,
	doneC <-chan struct{},
) (
	reason wakeReason_,
) {
	if nil == this.ch {
		this.ch = make(chan struct{})
	}
	wakeC := this.ch
	lock.Unlock()
	select {
	case <-wakeC:
		reason = woken_
	case <-timerC:
		reason = timedOut_
	case <-doneC:
		reason = cancelled_
	}
	lock.Lock()
	return
}

// take a one-slot semaphore, giving up if timerC fires or doneC closes first.
// a free semaphore is always taken, even with an expired timerC
func acquire_(
	sem chan struct{},
	timerC <-chan time.Time,
	doneC <-chan struct{},
) (
	reason wakeReason_,
) {
	select {
	case sem <- struct{}{}:
		return woken_
	default:
	}
	select {
	case sem <- struct{}{}:
		reason = woken_
	case <-timerC:
		reason = timedOut_
	case <-doneC:
		reason = cancelled_
	}
	return
}

// a timer chan that has already fired, for zero timeouts
var expiredC_ = func() <-chan time.Time {
	c := make(chan time.Time)
	close(c)
	return c
}()
