package asyncio

import (
	"errors"
	"fmt"

	"github.com/ptrIslam123/asyncio/future"
	"github.com/ptrIslam123/asyncio/ioevent"
	"github.com/ptrIslam123/asyncio/workerpool"
)

var (
	// ErrInvalidDescriptor is returned by Read/Write for fd < 0.
	ErrInvalidDescriptor = ioevent.ErrInvalidDescriptor
	// ErrPollFailed terminates the reactor loop; surfaced from Close.
	ErrPollFailed = ioevent.ErrPollFailed
	// ErrAlreadySet is a promise-level programming error, re-exported for
	// callers that build directly on future.Promise.
	ErrAlreadySet = future.ErrAlreadySet
	// ErrFutureAlreadyVended is a promise-level programming error.
	ErrFutureAlreadyVended = future.ErrFutureAlreadyVended
	// ErrConsumed is a future-level programming error.
	ErrConsumed = future.ErrConsumed
	// ErrAbandoned surfaces when a Promise is dropped before Set.
	ErrAbandoned = future.ErrAbandoned
	// ErrResourceExhausted is returned by the pool when a queue-depth
	// bound (WithMaxQueueDepth) is exceeded.
	ErrResourceExhausted = workerpool.ErrResourceExhausted

	// ErrStopped is returned by Read/Write once Close has been called: the
	// driver refuses new work after stop rather than silently subscribing
	// into a dying reactor.
	ErrStopped = errors.New("asyncio: driver is stopped")
)

// PanicError wraps a value recovered from a handler panic. Read delivers
// it through the handler's Future instead of leaving the future to hang
// until the promise is garbage collected; Write logs it the same way a
// pool-level task panic is logged.
type PanicError struct {
	// Value is whatever was passed to panic().
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("asyncio: handler panicked: %v", e.Value)
}
