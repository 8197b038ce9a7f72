package future

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromise_SetThenGet(t *testing.T) {
	p := New[int]()
	f, err := p.Future()
	require.NoError(t, err)

	require.False(t, f.IsReady())
	require.NoError(t, p.Set(42))
	require.True(t, f.IsReady())

	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, v)
}

// TestPromise_DoubleSetFails checks that a second Set observes
// ErrAlreadySet and the first value wins.
func TestPromise_DoubleSetFails(t *testing.T) {
	p := New[string]()
	f, err := p.Future()
	require.NoError(t, err)

	require.NoError(t, p.Set("first"))
	err = p.Set("second")
	assert.ErrorIs(t, err, ErrAlreadySet)

	v, err := f.Get()
	require.NoError(t, err)
	assert.Equal(t, "first", v)
}

// TestPromise_DoubleFutureFails checks that a second Future() call on the
// same promise fails: only one future may ever be vended per promise.
func TestPromise_DoubleFutureFails(t *testing.T) {
	p := New[int]()
	_, err := p.Future()
	require.NoError(t, err)

	_, err = p.Future()
	assert.ErrorIs(t, err, ErrFutureAlreadyVended)
}

// TestFuture_DoubleGetFails checks that a second Get, after the value has
// been withdrawn, observes ErrConsumed.
func TestFuture_DoubleGetFails(t *testing.T) {
	p := New[int]()
	f, err := p.Future()
	require.NoError(t, err)
	require.NoError(t, p.Set(7))

	_, err = f.Get()
	require.NoError(t, err)

	_, err = f.Get()
	assert.ErrorIs(t, err, ErrConsumed)
}

// TestPromise_FailDeliversErrorToGet checks that Fail wakes a blocked Get
// immediately with the given error, instead of leaving it to block until
// the promise is eventually abandoned.
func TestPromise_FailDeliversErrorToGet(t *testing.T) {
	p := New[int]()
	f, err := p.Future()
	require.NoError(t, err)

	boom := errors.New("boom")

	done := make(chan error, 1)
	go func() {
		_, gerr := f.Get()
		done <- gerr
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, p.Fail(boom))

	select {
	case gerr := <-done:
		assert.ErrorIs(t, gerr, boom)
	case <-time.After(time.Second):
		t.Fatal("Get did not unblock after Fail")
	}

	err = p.Fail(errors.New("second"))
	assert.ErrorIs(t, err, ErrAlreadySet)
}

func TestFuture_GetBlocksUntilSet(t *testing.T) {
	p := New[int]()
	f, err := p.Future()
	require.NoError(t, err)

	done := make(chan int, 1)
	go func() {
		v, gerr := f.Get()
		require.NoError(t, gerr)
		done <- v
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, p.Set(9))

	select {
	case v := <-done:
		assert.Equal(t, 9, v)
	case <-time.After(time.Second):
		t.Fatal("Get did not unblock after Set")
	}
}

// TestFuture_AbandonedPromise checks that a Promise dropped (garbage
// collected) without ever calling Set surfaces ErrAbandoned on Get instead
// of blocking forever.
func TestFuture_AbandonedPromise(t *testing.T) {
	f := func() *Future[int] {
		p := New[int]()
		fut, err := p.Future()
		require.NoError(t, err)
		return fut
		// p goes out of scope here with no reference retained.
	}()

	done := make(chan struct{})
	var getErr error
	go func() {
		_, getErr = f.Get()
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		runtime.GC()
		select {
		case <-done:
			assert.ErrorIs(t, getErr, ErrAbandoned)
			return
		case <-time.After(20 * time.Millisecond):
		}
	}
	t.Fatal("Get did not observe abandonment after repeated GC")
}
