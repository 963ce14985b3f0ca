package uchan

import "github.com/revolsys/csp/ulog"

// fill state of a DataStore
type State int

const (
	Empty State = iota
	NonEmptyNotFull
	Full
)

func (this State) String() string {
	switch this {
	case Empty:
		return "EMPTY"
	case NonEmptyNotFull:
		return "NONEMPTY_NOT_FULL"
	case Full:
		return "FULL"
	}
	return "UNKNOWN"
}

// Capacity of a store that never fills
const Unbounded = -1

// Storage strategy owned by a Channel.  None of these operations block:
// the Channel does all waiting, and must check State before Get or Put.
type DataStore[T any] interface {
	// remove and return the oldest item.  panics if Empty
	Get() T

	// append v as the newest item.  panics if Full
	Put(v T)

	State() State

	// drop all items
	Clear()

	Size() int

	// 0 for rendezvous, Unbounded, or the max number of buffered items
	Capacity() int
}

//
// ---------------------------------------------------------------------
//

// rendezvous store: holds the single in-flight item of a synchronous
// handoff, and is Full from the Put until the matching Get
type ZeroBuffer[T any] struct {
	value T
	full  bool
}

func NewZeroBuffer[T any]() *ZeroBuffer[T] { return &ZeroBuffer[T]{} }

func (this *ZeroBuffer[T]) Get() (rv T) {
	ulog.Assertf(this.full, "uchan: Get from EMPTY ZeroBuffer")
	rv = this.value
	this.Clear()
	return
}

func (this *ZeroBuffer[T]) Put(v T) {
	ulog.Assertf(!this.full, "uchan: Put to FULL ZeroBuffer")
	this.value = v
	this.full = true
}

func (this *ZeroBuffer[T]) State() State {
	if this.full {
		return Full
	}
	return Empty
}

func (this *ZeroBuffer[T]) Clear() {
	var zero T
	this.value = zero
	this.full = false
}

func (this *ZeroBuffer[T]) Size() int {
	if this.full {
		return 1
	}
	return 0
}

func (this *ZeroBuffer[T]) Capacity() int { return 0 }

//
// ---------------------------------------------------------------------
//

// FIFO ring buffer
//
// A capacity of 0 behaves as a rendezvous store (Full after one Put).
// An Unbounded buffer grows as needed and is never Full.
type Buffer[T any] struct {
	items    []T
	head     int // index of oldest item
	size     int
	capacity int
}

const unboundedInitial_ = 16

// a FIFO of up to capacity items.  capacity must not be negative
func NewBuffer[T any](capacity int) *Buffer[T] {
	ulog.Assertf(0 <= capacity, "uchan: negative Buffer capacity %d", capacity)
	slots := capacity
	if 0 == slots {
		slots = 1
	}
	return &Buffer[T]{
		items:    make([]T, slots),
		capacity: capacity,
	}
}

// a FIFO that never fills
func NewUnboundedBuffer[T any]() *Buffer[T] {
	return &Buffer[T]{
		items:    make([]T, unboundedInitial_),
		capacity: Unbounded,
	}
}

func (this *Buffer[T]) Get() (rv T) {
	ulog.Assertf(0 != this.size, "uchan: Get from EMPTY Buffer")
	var zero T
	rv = this.items[this.head]
	this.items[this.head] = zero
	this.head = (this.head + 1) % len(this.items)
	this.size--
	return
}

func (this *Buffer[T]) Put(v T) {
	ulog.Assertf(Full != this.State(), "uchan: Put to FULL Buffer")
	if this.size == len(this.items) { // only when Unbounded
		this.grow()
	}
	this.items[(this.head+this.size)%len(this.items)] = v
	this.size++
}

// double the ring, unwrapping the items to the front
func (this *Buffer[T]) grow() {
	items := make([]T, 2*len(this.items))
	n := copy(items, this.items[this.head:])
	copy(items[n:], this.items[:this.head])
	this.items = items
	this.head = 0
}

func (this *Buffer[T]) State() State {
	if 0 == this.size {
		return Empty
	} else if Unbounded != this.capacity && this.size >= len(this.items) {
		return Full
	}
	return NonEmptyNotFull
}

func (this *Buffer[T]) Clear() {
	clear(this.items)
	this.head = 0
	this.size = 0
}

func (this *Buffer[T]) Size() int { return this.size }

func (this *Buffer[T]) Capacity() int { return this.capacity }
