// Package usync holds small synchronization helpers: atomics with the
// set-once idioms the channel code needs, and polling waits for tests and
// shutdown paths.
package usync

import (
	"strconv"
	"sync/atomic"
)

// boolean that is safe to access by multiple goroutines
type AtomicBool struct {
	v atomic.Bool
}

func (this *AtomicBool) IsSet() bool { return this.v.Load() }

func (this *AtomicBool) Clear() { this.v.Store(false) }

func (this *AtomicBool) Set() { this.v.Store(true) }

// return true if able to set
func (this *AtomicBool) SetUnlessSet() (changed bool) {
	return this.v.CompareAndSwap(false, true)
}

// return true if able to clear
func (this *AtomicBool) ClearUnlessClear() (changed bool) {
	return this.v.CompareAndSwap(true, false)
}

//------------------------------------------------------------------

// counter that is safe to access by multiple goroutines
type AtomicInt struct {
	v atomic.Int64
}

func (this *AtomicInt) Add(amount int64) (result int64) {
	return this.v.Add(amount)
}

// add amount unless the result would reach lessThan
func (this *AtomicInt) AddIfLessThan(
	amount, lessThan int64,
) (
	result int64, added bool,
) {
	for {
		oldV := this.v.Load()
		newV := oldV + amount
		if newV >= lessThan {
			return oldV, false
		}
		if this.v.CompareAndSwap(oldV, newV) {
			return newV, true
		}
	}
}

func (this *AtomicInt) Get() int64 { return this.v.Load() }

func (this *AtomicInt) Set(amount int64) { this.v.Store(amount) }

func (this *AtomicInt) String() string {
	return strconv.FormatInt(this.v.Load(), 10)
}

// track the highest value seen
func (this *AtomicInt) StoreMax(candidate int64) {
	for {
		oldV := this.v.Load()
		if candidate <= oldV || this.v.CompareAndSwap(oldV, candidate) {
			return
		}
	}
}
