package workerpool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_RunsAllSubmittedTasks(t *testing.T) {
	p := New(4)
	var count int64
	const n = 100

	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		_, err := p.Submit(func() {
			atomic.AddInt64(&count, 1)
			wg.Done()
		})
		require.NoError(t, err)
	}
	wg.Wait()
	p.Join()

	assert.EqualValues(t, n, atomic.LoadInt64(&count))
}

// TestPool_FIFOOrder checks that tasks run in submission order.
func TestPool_FIFOOrder(t *testing.T) {
	p := New(1) // single worker: order is unambiguous.

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	const n = 50
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		_, err := p.Submit(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			wg.Done()
		})
		require.NoError(t, err)
	}
	wg.Wait()
	p.Join()

	for i := 0; i < n; i++ {
		assert.Equal(t, i, order[i])
	}
}

func TestPool_SubmitAfterJoinFails(t *testing.T) {
	p := New(2)
	p.Join()

	_, err := p.Submit(func() {})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestPool_MaxQueueDepthExhausted(t *testing.T) {
	release := make(chan struct{})
	p := New(1, WithMaxQueueDepth(1))
	defer close(release)

	// Occupy the single worker so the next submission sits in the queue.
	started := make(chan struct{})
	_, err := p.Submit(func() {
		close(started)
		<-release
	})
	require.NoError(t, err)
	<-started

	_, err = p.Submit(func() {})
	require.NoError(t, err)

	_, err = p.Submit(func() {})
	assert.ErrorIs(t, err, ErrResourceExhausted)
}

// TestPool_TaskPanicDoesNotCrashWorker checks that a panicking task is
// recovered and handed to WithPanicHandler, and that the worker keeps
// running subsequent tasks afterward.
func TestPool_TaskPanicDoesNotCrashWorker(t *testing.T) {
	var recovered atomic.Value
	p := New(1, WithPanicHandler(func(id uuid.UUID, r any) {
		recovered.Store(r)
	}))

	_, err := p.Submit(func() { panic("boom") })
	require.NoError(t, err)

	var ran int64
	_, err = p.Submit(func() { atomic.AddInt64(&ran, 1) })
	require.NoError(t, err)

	p.Join()

	assert.Equal(t, "boom", recovered.Load())
	assert.EqualValues(t, 1, atomic.LoadInt64(&ran))
}

func TestPool_JoinIsIdempotent(t *testing.T) {
	p := New(2)
	var ran int64
	_, err := p.Submit(func() { atomic.AddInt64(&ran, 1) })
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		p.Join()
		close(done)
	}()

	p.Join()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Join did not complete")
	}
	assert.EqualValues(t, 1, atomic.LoadInt64(&ran))
}
