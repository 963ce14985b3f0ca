package uchan

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/revolsys/csp/usync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// run fn in a goroutine, returning a chan that gets its result
func goErr(fn func() error) <-chan error {
	rv := make(chan error, 1)
	go func() { rv <- fn() }()
	return rv
}

// fail if a result arrives on resultC within d
func assertBlocked(t *testing.T, resultC <-chan error, d time.Duration) {
	t.Helper()
	select {
	case err := <-resultC:
		t.Fatalf("should be blocked, but completed with %v", err)
	case <-time.After(d):
	}
}

func awaitResult(t *testing.T, resultC <-chan error) (err error) {
	t.Helper()
	select {
	case err = <-resultC:
	case <-time.After(2 * time.Second):
		t.Fatalf("operation did not complete")
	}
	return
}

func TestRendezvous(t *testing.T) {

	fmt.Printf(`
GIVEN rendezvous channel
 WHEN writer writes with no reader
 THEN writer stays blocked until the value is read
`)

	ch := NewRendezvous[string]()
	resultC := goErr(func() error { return ch.Write("hello") })

	assertBlocked(t, resultC, 50*time.Millisecond)
	require.Equal(t, 1, ch.Len())

	v, err := ch.Read()
	require.NoError(t, err)
	assert.Equal(t, "hello", v)
	assert.NoError(t, awaitResult(t, resultC))
	assert.Equal(t, 0, ch.Len())
}

func TestFIFO(t *testing.T) {
	for _, ch := range []*Channel[int]{
		NewRendezvous[int](),
		NewBuffered[int](5),
		NewUnbounded[int](),
		NewChannel[int](nil),
	} {
		const amount = 200
		resultC := goErr(func() (err error) {
			for i := 0; i < amount; i++ {
				err = ch.Write(i)
				if nil != err {
					return
				}
			}
			return
		})
		for i := 0; i < amount; i++ {
			v, err := ch.Read()
			require.NoError(t, err)
			require.Equal(t, i, v)
		}
		assert.NoError(t, awaitResult(t, resultC))
	}
}

func TestReadersSerialized(t *testing.T) {

	fmt.Printf(`
GIVEN channel with data
 WHEN another reader is inside the read section
 THEN read waits for that reader to finish
`)

	ch := NewBuffered[int](4)
	require.NoError(t, ch.Write(1))

	ch.readLock <- struct{}{}
	resultC := goErr(func() (err error) {
		_, err = ch.Read()
		return
	})
	assertBlocked(t, resultC, 30*time.Millisecond)
	<-ch.readLock
	assert.NoError(t, awaitResult(t, resultC))
}

func TestWritersSerialized(t *testing.T) {
	ch := NewBuffered[int](4)

	ch.writeLock <- struct{}{}
	resultC := goErr(func() error { return ch.Write(1) })
	assertBlocked(t, resultC, 30*time.Millisecond)
	<-ch.writeLock
	assert.NoError(t, awaitResult(t, resultC))
	assert.Equal(t, 1, ch.Len())
}

func TestConcurrentReaders(t *testing.T) {
	const readers = 8
	const perReader = 250

	ch := NewBuffered[int](3)
	seen := make([]usync.AtomicInt, readers*perReader)

	var g errgroup.Group
	for r := 0; r < readers; r++ {
		g.Go(func() error {
			for i := 0; i < perReader; i++ {
				v, err := ch.Read()
				if nil != err {
					return err
				}
				seen[v].Add(1)
			}
			return nil
		})
	}
	for i := 0; i < readers*perReader; i++ {
		require.NoError(t, ch.Write(i))
	}
	require.NoError(t, g.Wait())

	for i := range seen {
		require.Equal(t, int64(1), seen[i].Get(), "value %d", i)
	}
}

func TestCapacityTwo(t *testing.T) {

	fmt.Printf(`
GIVEN channel with capacity 2 and no reader
 WHEN A, B and then C are written
 THEN A and B complete and C blocks until A is read
`)

	ch := NewBuffered[string](2)
	require.NoError(t, ch.Write("A"))
	require.NoError(t, ch.Write("B"))

	resultC := goErr(func() error { return ch.Write("C") })
	assertBlocked(t, resultC, 50*time.Millisecond)

	v, err := ch.Read()
	require.NoError(t, err)
	assert.Equal(t, "A", v)
	assert.NoError(t, awaitResult(t, resultC))

	for _, expect := range []string{"B", "C"} {
		v, err = ch.Read()
		require.NoError(t, err)
		assert.Equal(t, expect, v)
	}
}

func TestReadWaitTimeout(t *testing.T) {
	ch := NewBuffered[int](1)

	start := time.Now()
	v, ok, err := ch.ReadWait(40 * time.Millisecond)
	elapsed := time.Since(start)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, v)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, time.Second)

	// zero timeout polls
	_, ok, err = ch.ReadWait(0)
	assert.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, ch.Write(5))
	v, ok, err = ch.ReadWait(0)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 5, v)
}

func TestReadWaitNoTimeout(t *testing.T) {
	ch := NewBuffered[int](1)

	writeC := goErr(func() error {
		time.Sleep(50 * time.Millisecond)
		return ch.Write(7)
	})
	start := time.Now()
	v, ok, err := ch.ReadWait(NoTimeout)
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 7, v)
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.NoError(t, awaitResult(t, writeC))
}

func TestQueuedReaderDeadline(t *testing.T) {

	fmt.Printf(`
GIVEN empty channel with a reader blocked inside Read
 WHEN other readers queue with a timeout or a context deadline
 THEN each gives up at its deadline instead of waiting for the first reader
`)

	ch := NewBuffered[int](1)
	firstC := goErr(func() (err error) {
		_, err = ch.Read()
		return
	})
	assertBlocked(t, firstC, 20*time.Millisecond)

	start := time.Now()
	_, ok, err := ch.ReadWait(40 * time.Millisecond)
	elapsed := time.Since(start)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, elapsed, 40*time.Millisecond)
	assert.Less(t, elapsed, time.Second)

	_, ok, err = ch.ReadWait(0)
	assert.NoError(t, err)
	assert.False(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	resultC := goErr(func() (err error) {
		_, err = ch.ReadContext(ctx)
		return
	})
	assert.ErrorIs(t, awaitResult(t, resultC), context.DeadlineExceeded)

	// the first reader still gets the next value
	require.NoError(t, ch.Write(1))
	assert.NoError(t, awaitResult(t, firstC))
	assert.False(t, ch.IsClosed())
}

func TestQueuedWriterCancelled(t *testing.T) {
	ch := NewBuffered[int](1)
	require.NoError(t, ch.Write(1))
	firstC := goErr(func() error { return ch.Write(2) })
	assertBlocked(t, firstC, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 40*time.Millisecond)
	defer cancel()
	resultC := goErr(func() error { return ch.WriteContext(ctx, 3) })
	assert.ErrorIs(t, awaitResult(t, resultC), context.DeadlineExceeded)

	for _, expect := range []int{1, 2} {
		v, err := ch.Read()
		require.NoError(t, err)
		assert.Equal(t, expect, v)
	}
	assert.NoError(t, awaitResult(t, firstC))
	assert.Equal(t, 0, ch.Len())
}

func TestLastWriterClosesReader(t *testing.T) {

	fmt.Printf(`
GIVEN reader blocked on channel with one connected writer
 WHEN writer disconnects
 THEN reader fails with ClosedError
`)

	ch := NewRendezvous[int]()
	require.NoError(t, ch.WriteConnect())

	resultC := goErr(func() (err error) {
		_, err = ch.Read()
		return
	})
	assertBlocked(t, resultC, 20*time.Millisecond)
	ch.WriteDisconnect()

	err := awaitResult(t, resultC)
	require.Error(t, err)
	assert.True(t, IsClosedError(err))
	assert.True(t, ch.IsClosed())

	err = ch.WriteConnect()
	assert.True(t, IsIllegalStateError(err))
	assert.True(t, IsClosedError(err))
	err = ch.ReadConnect()
	assert.True(t, IsIllegalStateError(err))
}

func TestLastReaderClosesWriter(t *testing.T) {
	ch := NewBuffered[int](1)
	require.NoError(t, ch.ReadConnect())
	require.NoError(t, ch.ReadConnect())
	require.NoError(t, ch.Write(1))

	// blocked on full
	resultC := goErr(func() error { return ch.Write(2) })
	assertBlocked(t, resultC, 20*time.Millisecond)

	ch.ReadDisconnect()
	assert.False(t, ch.IsClosed())
	assertBlocked(t, resultC, 20*time.Millisecond)

	ch.ReadDisconnect()
	assert.True(t, ch.IsClosed())
	err := awaitResult(t, resultC)
	assert.True(t, IsClosedError(err))

	err = ch.Write(3)
	assert.True(t, IsClosedError(err))
}

func TestDrainBeforeClose(t *testing.T) {

	fmt.Printf(`
GIVEN buffered channel holding values
 WHEN the last writer disconnects
 THEN the values can still be read, and then the channel closes
`)

	ch := NewBuffered[int](3)
	require.NoError(t, ch.WriteConnect())
	require.NoError(t, ch.Write(1))
	require.NoError(t, ch.Write(2))
	ch.WriteDisconnect()

	assert.False(t, ch.IsClosed())
	assert.True(t, IsClosedError(ch.Write(3)))

	v, err := ch.Read()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.False(t, ch.IsClosed())

	v, err = ch.Read()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
	assert.True(t, ch.IsClosed())

	_, err = ch.Read()
	assert.True(t, IsClosedError(err))
}

func TestDisconnectWithoutConnect(t *testing.T) {
	ch := NewBuffered[int](1)
	ch.WriteDisconnect()
	assert.True(t, ch.IsClosed())

	ch = NewBuffered[int](1)
	ch.ReadDisconnect()
	assert.True(t, ch.IsClosed())
}

func TestCloseUnblocks(t *testing.T) {
	readCh := NewRendezvous[int]()
	readC := goErr(func() (err error) {
		_, err = readCh.Read()
		return
	})

	writeCh := NewRendezvous[int]()
	writeC := goErr(func() error { return writeCh.Write(1) })

	fullCh := NewBuffered[int](1)
	require.NoError(t, fullCh.Write(1))
	fullC := goErr(func() error { return fullCh.Write(2) })

	assertBlocked(t, readC, 20*time.Millisecond)
	assertBlocked(t, writeC, 0)
	assertBlocked(t, fullC, 0)

	readCh.Close()
	writeCh.Close()
	fullCh.Close()
	fullCh.Close()

	for _, resultC := range []<-chan error{readC, writeC, fullC} {
		err := awaitResult(t, resultC)
		require.Error(t, err)
		var closed *ClosedError
		assert.True(t, errors.As(err, &closed))
	}

	// closed with data still waiting
	_, err := fullCh.Read()
	assert.True(t, IsClosedError(err))
}

func TestReadContext(t *testing.T) {
	ch := NewRendezvous[int]()
	ctx, cancel := context.WithCancel(context.Background())

	resultC := goErr(func() (err error) {
		_, err = ch.ReadContext(ctx)
		return
	})
	assertBlocked(t, resultC, 20*time.Millisecond)
	cancel()
	assert.ErrorIs(t, awaitResult(t, resultC), context.Canceled)
	assert.False(t, ch.IsClosed())

	writeC := goErr(func() error { return ch.Write(1) })
	v, err := ch.ReadContext(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.NoError(t, awaitResult(t, writeC))
}

func TestWriteContext(t *testing.T) {

	fmt.Printf(`
GIVEN rendezvous writer waiting for its reader
 WHEN the write is cancelled
 THEN the value is withdrawn and never read
`)

	ch := NewRendezvous[int]()
	ctx, cancel := context.WithCancel(context.Background())

	resultC := goErr(func() error { return ch.WriteContext(ctx, 1) })
	assertBlocked(t, resultC, 20*time.Millisecond)
	require.Equal(t, 1, ch.Len())
	cancel()
	assert.ErrorIs(t, awaitResult(t, resultC), context.Canceled)
	assert.Equal(t, 0, ch.Len())

	_, ok, err := ch.ReadWait(10 * time.Millisecond)
	assert.NoError(t, err)
	assert.False(t, ok)

	// cancelled while waiting for space
	full := NewBuffered[int](1)
	require.NoError(t, full.Write(1))
	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err = full.WriteContext(ctx, 2)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, full.Len())
}

func TestWriteContextWithdrawnAfterWriteSideClosed(t *testing.T) {

	fmt.Printf(`
GIVEN rendezvous writer waiting for its reader
 WHEN the write side closes and then the write is cancelled
 THEN the drained channel closes, so readers and selectors do not hang
`)

	ch := NewRendezvous[int]()
	ctx, cancel := context.WithCancel(context.Background())

	resultC := goErr(func() error { return ch.WriteContext(ctx, 1) })
	assertBlocked(t, resultC, 20*time.Millisecond)
	require.NoError(t, ch.WriteConnect())
	ch.WriteDisconnect()
	require.False(t, ch.IsClosed())

	cancel()
	assert.ErrorIs(t, awaitResult(t, resultC), context.Canceled)
	assert.True(t, ch.IsClosed())
	assert.Equal(t, 0, ch.Len())

	_, err := NewSelector().Select(ch)
	assert.True(t, IsClosedError(err))
	_, err = ch.Read()
	assert.True(t, IsClosedError(err))
}
