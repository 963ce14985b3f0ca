package uchan

import (
	"context"
	"sync"
	"time"

	"github.com/revolsys/csp/uerr"
	"github.com/revolsys/csp/ulog"
)

// component name for ulog debug output
const DebugComponent = "uchan"

// A point to point channel between goroutines.
//
// At most one goroutine is inside Read (or ReadWait, ReadContext) at a time,
// and at most one inside Write.  Others queue on the read or write side.
// Values are delivered in FIFO order according to the DataStore.
//
// Participants may register with ReadConnect / WriteConnect.  When the last
// registered reader disconnects the channel closes.  When the last
// registered writer disconnects the write side closes, and the channel
// closes once the remaining values have been read.  Close closes the
// channel immediately.  Once closed, a channel never reopens, and every
// blocked or later Read and Write fails with a ClosedError.
//
// A Channel can be a candidate in a Selector.  When a Selector is waiting on
// it, Write wakes that Selector directly.
type Channel[T any] struct {
	Name string // for diagnostics

	readLock    chan struct{} // one reader at a time
	writeLock   chan struct{} // one writer at a time
	lock        sync.Mutex    // guards everything below
	changed     cond_         // store or closed state changed
	store       DataStore[T]
	readers     int
	writers     int
	closed      bool
	writeClosed bool
	alt         *Selector // registered during a Selector enable phase
}

// create a channel around store.  a nil store is a rendezvous channel
func NewChannel[T any](store DataStore[T]) *Channel[T] {
	if nil == store {
		store = NewZeroBuffer[T]()
	}
	return &Channel[T]{
		store:     store,
		readLock:  make(chan struct{}, 1),
		writeLock: make(chan struct{}, 1),
	}
}

// a synchronous channel: Write returns once the value has been read
func NewRendezvous[T any]() *Channel[T] {
	return NewChannel[T](NewZeroBuffer[T]())
}

// a channel buffering up to capacity values.  0 is a rendezvous channel
func NewBuffered[T any](capacity int) *Channel[T] {
	if 0 == capacity {
		return NewRendezvous[T]()
	}
	return NewChannel[T](NewBuffer[T](capacity))
}

// a channel whose writers never wait for space
func NewUnbounded[T any]() *Channel[T] {
	return NewChannel[T](NewUnboundedBuffer[T]())
}

func (this *Channel[T]) name() string {
	if 0 == len(this.Name) {
		return "channel"
	}
	return this.Name
}

func (this *Channel[T]) closedError(op string) error {
	return uerr.Cast(&ClosedError{}, "%s: %s on closed channel", this.name(), op)
}

// Read the next value, waiting until one is available.
//
// Fails with a ClosedError if the channel is closed.
func (this *Channel[T]) Read() (rv T, err error) {
	rv, _, err = this.read(nil, nil, nil)
	return
}

// Read the next value, waiting up to timeout for one to become available.
// The timeout covers any wait behind other readers.  0 polls, and
// NoTimeout waits as long as Read.
//
// A timeout is not an error: ok is false and err is nil.
// Fails with a ClosedError if the channel is closed.
func (this *Channel[T]) ReadWait(timeout time.Duration) (rv T, ok bool, err error) {
	var timerC <-chan time.Time
	if 0 == timeout {
		timerC = expiredC_
	} else if 0 < timeout {
		t := time.NewTimer(timeout)
		defer t.Stop()
		timerC = t.C
	}
	return this.read(timerC, nil, nil)
}

// Read the next value, waiting until one is available or ctx is done.
//
// Fails with ctx.Err() if ctx is done first, even while queued behind other
// readers, or with a ClosedError if the channel is closed.
func (this *Channel[T]) ReadContext(ctx context.Context) (rv T, err error) {
	rv, _, err = this.read(nil, ctx.Done(), ctx)
	return
}

func (this *Channel[T]) read(
	timerC <-chan time.Time,
	doneC <-chan struct{},
	ctx context.Context,
) (
	rv T, ok bool, err error,
) {
	switch acquire_(this.readLock, timerC, doneC) {
	case timedOut_:
		return
	case cancelled_:
		err = ctx.Err()
		return
	}
	defer func() { <-this.readLock }()
	this.lock.Lock()
	defer this.lock.Unlock()

	for {
		if this.closed {
			err = this.closedError("read")
			return
		} else if Empty != this.store.State() {
			break
		} else if this.writeClosed {
			this.closeLocked("write side closed and drained")
			err = this.closedError("read")
			return
		}
		switch this.changed.wait(&this.lock, timerC, doneC) {
		case timedOut_:
			return
		case cancelled_:
			err = ctx.Err()
			return
		}
	}

	rv = this.store.Get()
	ok = true
	if this.writeClosed && Empty == this.store.State() {
		this.closeLocked("write side closed and drained")
	} else {
		this.changed.broadcast()
	}
	return
}

// Write v, waiting for space.
//
// For a rendezvous channel, also wait until a reader has taken v.
//
// Fails with a ClosedError if the channel is closed, or its write side is.
func (this *Channel[T]) Write(v T) (err error) {
	return this.write(v, nil, nil)
}

// Write v as with Write, but give up if ctx is done first.
//
// If ctx is done while a rendezvous value waits for its reader, the value is
// withdrawn, so a failed WriteContext never delivers.
func (this *Channel[T]) WriteContext(ctx context.Context, v T) (err error) {
	return this.write(v, ctx.Done(), ctx)
}

func (this *Channel[T]) write(
	v T,
	doneC <-chan struct{},
	ctx context.Context,
) (
	err error,
) {
	if cancelled_ == acquire_(this.writeLock, nil, doneC) {
		return ctx.Err()
	}
	defer func() { <-this.writeLock }()
	this.lock.Lock()
	defer this.lock.Unlock()

	for {
		if this.closed || this.writeClosed {
			return this.closedError("write")
		} else if Full != this.store.State() {
			break
		}
		if cancelled_ == this.changed.wait(&this.lock, nil, doneC) {
			return ctx.Err()
		}
	}

	this.store.Put(v)
	if nil != this.alt {
		this.alt.Schedule()
	}
	this.changed.broadcast()

	if 0 != this.store.Capacity() {
		return
	}

	// rendezvous: only this writer can fill the store, so it stays
	// Full until the reader takes v
	for Full == this.store.State() {
		if this.closed {
			return this.closedError("write")
		}
		if cancelled_ == this.changed.wait(&this.lock, nil, doneC) {
			if Full == this.store.State() {
				this.store.Clear()
				if this.writeClosed {
					this.closeLocked("write side closed and drained")
				} else {
					this.changed.broadcast()
				}
				return ctx.Err()
			}
		}
	}
	return
}

// register a reader.  Fails with an IllegalStateError if closed
func (this *Channel[T]) ReadConnect() (err error) {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.closed {
		return uerr.Recast(&IllegalStateError{}, this.closedError("connect"),
			"%s: reader cannot connect", this.name())
	}
	this.readers++
	return
}

// register a writer.  Fails with an IllegalStateError if the write side
// is closed
func (this *Channel[T]) WriteConnect() (err error) {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.closed || this.writeClosed {
		return uerr.Recast(&IllegalStateError{}, this.closedError("connect"),
			"%s: writer cannot connect", this.name())
	}
	this.writers++
	return
}

// unregister a reader.  The last reader to leave closes the channel.
func (this *Channel[T]) ReadDisconnect() {
	this.lock.Lock()
	defer this.lock.Unlock()

	if 0 < this.readers {
		this.readers--
	}
	if 0 == this.readers {
		this.closeLocked("last reader disconnected")
	}
}

// unregister a writer.  The last writer to leave closes the write side;
// the channel closes once it is drained.
func (this *Channel[T]) WriteDisconnect() {
	this.lock.Lock()
	defer this.lock.Unlock()

	if 0 < this.writers {
		this.writers--
	}
	if 0 != this.writers || this.writeClosed || this.closed {
		return
	}
	this.writeClosed = true
	if Empty == this.store.State() {
		this.closeLocked("last writer disconnected")
	} else {
		ulog.DebugfFor(DebugComponent, "%s: write side closed, %d to drain",
			this.name(), this.store.Size())
		this.changed.broadcast()
	}
}

// close the channel, unblocking every waiting reader and writer
func (this *Channel[T]) Close() {
	this.lock.Lock()
	defer this.lock.Unlock()
	this.closeLocked("closed")
}

// lock must be held
func (this *Channel[T]) closeLocked(why string) {
	if this.closed {
		return
	}
	this.closed = true
	ulog.DebugfFor(DebugComponent, "%s: %s", this.name(), why)
	this.changed.broadcast()
	if nil != this.alt {
		this.alt.CloseChannel()
	}
}

// true once the channel has closed
func (this *Channel[T]) IsClosed() bool {
	this.lock.Lock()
	defer this.lock.Unlock()
	return this.closed
}

// number of values waiting to be read
func (this *Channel[T]) Len() int {
	this.lock.Lock()
	defer this.lock.Unlock()
	return this.store.Size()
}

// implement Selectable
//
// true if a value is already waiting (or the channel has closed, so the
// Selector should stop and look).  otherwise, remember sel so Write or
// close will wake it.
func (this *Channel[T]) Enable(sel *Selector) bool {
	this.lock.Lock()
	defer this.lock.Unlock()

	if this.closed || Empty != this.store.State() {
		return true
	}
	this.alt = sel
	return false
}

// implement Selectable
//
// forget any registered Selector.  true if a value is waiting.
func (this *Channel[T]) Disable() bool {
	this.lock.Lock()
	defer this.lock.Unlock()

	this.alt = nil
	return Empty != this.store.State()
}
