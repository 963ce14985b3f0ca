package uchan

import (
	"context"
	"time"

	"github.com/revolsys/csp/usync"
)

// A registered reader of a Channel.  Close disconnects it; closing again
// does nothing.
//
//	in, err := uchan.ConnectReader(ch)
//	if err != nil {
//		return err
//	}
//	defer in.Close()
type ReadEnd[T any] struct {
	ch     *Channel[T]
	closed usync.AtomicBool
}

// register as a reader of ch
func ConnectReader[T any](ch *Channel[T]) (rv *ReadEnd[T], err error) {
	err = ch.ReadConnect()
	if nil == err {
		rv = &ReadEnd[T]{ch: ch}
	}
	return
}

func (this *ReadEnd[T]) Channel() *Channel[T] { return this.ch }

func (this *ReadEnd[T]) Read() (T, error) { return this.ch.Read() }

func (this *ReadEnd[T]) ReadWait(timeout time.Duration) (T, bool, error) {
	return this.ch.ReadWait(timeout)
}

func (this *ReadEnd[T]) ReadContext(ctx context.Context) (T, error) {
	return this.ch.ReadContext(ctx)
}

func (this *ReadEnd[T]) Close() {
	if this.closed.SetUnlessSet() {
		this.ch.ReadDisconnect()
	}
}

//
// ---------------------------------------------------------------------
//

// A registered writer of a Channel.  Close disconnects it; closing again
// does nothing.
type WriteEnd[T any] struct {
	ch     *Channel[T]
	closed usync.AtomicBool
}

// register as a writer of ch
func ConnectWriter[T any](ch *Channel[T]) (rv *WriteEnd[T], err error) {
	err = ch.WriteConnect()
	if nil == err {
		rv = &WriteEnd[T]{ch: ch}
	}
	return
}

func (this *WriteEnd[T]) Channel() *Channel[T] { return this.ch }

func (this *WriteEnd[T]) Write(v T) error { return this.ch.Write(v) }

func (this *WriteEnd[T]) WriteContext(ctx context.Context, v T) error {
	return this.ch.WriteContext(ctx, v)
}

func (this *WriteEnd[T]) Close() {
	if this.closed.SetUnlessSet() {
		this.ch.WriteDisconnect()
	}
}

//
// ---------------------------------------------------------------------
//

// run fn as a registered reader of ch, disconnecting when fn returns
func WithReader[T any](ch *Channel[T], fn func(in *ReadEnd[T]) error) (err error) {
	in, err := ConnectReader(ch)
	if nil != err {
		return
	}
	defer in.Close()
	return fn(in)
}

// run fn as a registered writer of ch, disconnecting when fn returns
func WithWriter[T any](ch *Channel[T], fn func(out *WriteEnd[T]) error) (err error) {
	out, err := ConnectWriter(ch)
	if nil != err {
		return
	}
	defer out.Close()
	return fn(out)
}
