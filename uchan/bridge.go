package uchan

import (
	"github.com/Code-Hex/go-infinity-channel"
	"github.com/revolsys/csp/ulog"
)

// Copy everything read from ch into a native chan, for use in a select
// statement.  The native chan closes once ch has closed and every value
// read from ch has been received.
//
// The goroutine doing the copy is the only reader of ch while it runs.
// It never waits on the consumer, so ch drains at the writers' pace.
func Stream[T any](ch *Channel[T]) <-chan T {
	buffer := infinity.NewChannel[T]()
	go func() {
		defer buffer.Close()
		for {
			v, err := ch.Read()
			if nil != err {
				if !IsClosedError(err) {
					ulog.Warnf("uchan: %s: stream stopped: %s", ch.name(), err)
				}
				return
			}
			buffer.In() <- v
		}
	}()
	return buffer.Out()
}

// Write everything received from src into ch as a registered writer.
// Once src is closed, disconnect, so ch closes after it drains.
//
// Returns the first write error, such as a ClosedError if ch was closed
// by its readers.
func Feed[T any](src <-chan T, ch *Channel[T]) (err error) {
	return WithWriter(ch, func(out *WriteEnd[T]) (err error) {
		for v := range src {
			err = out.Write(v)
			if nil != err {
				return
			}
		}
		return
	})
}
