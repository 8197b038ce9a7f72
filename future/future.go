// Package future provides a Promise/Future pair: a producing handle and a
// single consuming handle over a shared, one-shot value rendezvous
// ([oneshot.Cell]).
package future

import (
	"errors"
	"runtime"
	"sync"

	"github.com/ptrIslam123/asyncio/oneshot"
)

var (
	// ErrAlreadySet is returned by Promise.Set when a value has already
	// been deposited. Equivalent to oneshot.ErrAlreadySet.
	ErrAlreadySet = oneshot.ErrAlreadySet

	// ErrConsumed is returned by Future.Get when its value has already
	// been withdrawn by a previous call. Equivalent to oneshot.ErrConsumed.
	ErrConsumed = oneshot.ErrConsumed

	// ErrFutureAlreadyVended is returned by Promise.Future when a Future
	// has already been created from this Promise.
	ErrFutureAlreadyVended = errors.New("future: a future was already vended for this promise")

	// ErrAbandoned is returned by Future.Get when the Promise producing
	// its value was garbage collected without ever calling Set.
	ErrAbandoned = errors.New("future: promise was abandoned before it was fulfilled")
)

// sharedState is the cell plus the bookkeeping needed to detect an
// abandoned producer or a failed one: a dedicated mutex/cond pair so
// Future.Get can wake on "value ready", "producer gone" or "producer
// failed", none of which the plain oneshot.Cell can express on its own.
type sharedState[T any] struct {
	cell *oneshot.Cell[T]

	mu        sync.Mutex
	cond      *sync.Cond
	abandoned bool
	failErr   error

	futureVended bool
}

func newSharedState[T any]() *sharedState[T] {
	s := &sharedState[T]{cell: oneshot.New[T]()}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// Promise is the producing handle of a Promise/Future pair. It is
// single-producer: Set may succeed at most once, mirroring
// [oneshot.Cell.Put].
type Promise[T any] struct {
	shared *sharedState[T]
}

// Future is the single-consumer handle of a Promise/Future pair, vended by
// [Promise.Future].
type Future[T any] struct {
	shared *sharedState[T]
}

// New creates a fresh Promise with an empty backing cell. A finalizer is
// attached so that if the Promise is garbage collected without Set ever
// having been called, any Future already vended from it observes
// ErrAbandoned instead of blocking forever.
func New[T any]() *Promise[T] {
	p := &Promise[T]{shared: newSharedState[T]()}
	runtime.SetFinalizer(p, (*Promise[T]).finalize)
	return p
}

func (p *Promise[T]) finalize() {
	s := p.shared
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cell.IsReady() && s.failErr == nil {
		s.abandoned = true
		s.cond.Broadcast()
	}
}

// Future returns the single Future backed by this Promise's cell. A second
// call fails with ErrFutureAlreadyVended.
func (p *Promise[T]) Future() (*Future[T], error) {
	s := p.shared
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.futureVended {
		return nil, ErrFutureAlreadyVended
	}
	s.futureVended = true
	return &Future[T]{shared: s}, nil
}

// Set deposits v as the promise's result, delegating to the cell's Put and
// waking any goroutine blocked in Future.Get. Fails with ErrAlreadySet if a
// value has already been deposited.
func (p *Promise[T]) Set(v T) error {
	s := p.shared
	if err := s.cell.Put(v); err != nil {
		return err
	}
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
	return nil
}

// Fail marks the promise as having failed with err, waking any goroutine
// blocked in Future.Get immediately instead of leaving it to block until
// the promise is eventually abandoned. Fails with ErrAlreadySet if a value
// has already been deposited or the promise has already failed.
func (p *Promise[T]) Fail(err error) error {
	s := p.shared
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cell.IsReady() || s.failErr != nil {
		return ErrAlreadySet
	}
	s.failErr = err
	s.cond.Broadcast()
	return nil
}

// IsReady reports whether the promise's value has been deposited, without
// blocking. Delegates to the cell's IsReady.
func (f *Future[T]) IsReady() bool {
	return f.shared.cell.IsReady()
}

// Get returns the promise's value, blocking until it is available. If the
// producing Promise failed (see Promise.Fail) before setting a value, Get
// returns that error. If the producing Promise was dropped (garbage
// collected) before ever calling Set or Fail, Get returns ErrAbandoned
// instead of blocking forever. A second call to Get, after the first has
// withdrawn the value, returns ErrConsumed.
func (f *Future[T]) Get() (T, error) {
	s := f.shared

	s.mu.Lock()
	for !s.cell.IsReady() && !s.abandoned && s.failErr == nil {
		s.cond.Wait()
	}
	ready := s.cell.IsReady()
	abandoned := s.abandoned && !ready
	failErr := s.failErr
	if ready {
		failErr = nil
	}
	s.mu.Unlock()

	if failErr != nil {
		var zero T
		return zero, failErr
	}
	if abandoned {
		var zero T
		return zero, ErrAbandoned
	}
	return s.cell.TakeOrWait()
}
