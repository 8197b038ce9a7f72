// Package ioevent implements the reactor: a descriptor subscription table
// driven by a single dedicated polling thread.
package ioevent

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// EventKind is the caller-facing interest a Subscription expresses in a
// descriptor.
type EventKind int

const (
	// EventRead corresponds to POLLRDNORM.
	EventRead EventKind = iota
	// EventWrite corresponds to POLLWRNORM.
	EventWrite
)

func (k EventKind) String() string {
	switch k {
	case EventRead:
		return "read"
	case EventWrite:
		return "write"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// DescriptorStatus is the value a Callback returns to signal whether its
// Subscription should persist (Open) or be removed (Close).
type DescriptorStatus int

const (
	// Open means "keep the subscription; invoke me again next time the
	// descriptor is ready".
	Open DescriptorStatus = iota
	// Close means "remove this subscription; I am one-shot".
	Close
)

// Callback is invoked with the ready descriptor and returns whether its
// subscription should persist.
type Callback func(fd int) DescriptorStatus

var (
	// ErrInvalidDescriptor is returned by Subscribe/Unsubscribe for fd < 0.
	ErrInvalidDescriptor = errors.New("ioevent: invalid descriptor")

	// ErrPollFailed is returned (and terminates the loop) when the
	// readiness primitive returns a hard error.
	ErrPollFailed = errors.New("ioevent: poll failed")
)

// subscription is the reactor's internal record: a Subscription plus its
// parallel poll-slot data. The two always travel together and are never
// maintained as separately-indexed arrays.
type subscription struct {
	id       uuid.UUID
	fd       int
	event    EventKind
	callback Callback
}

// Reactor owns the subscription table and drives the polling loop. Only
// one goroutine may call Run at a time; Subscribe, Unsubscribe, SetTimeout
// and Stop are safe to call from any goroutine.
type Reactor struct {
	mu      sync.Mutex
	table   []*subscription
	stopped atomic.Bool
	running atomic.Bool

	timeoutMs atomic.Int64

	wake            wakeupFD
	closeOnShutdown bool

	logger  Logger
	onRound func()
}

// Option configures a Reactor at construction time.
type Option interface {
	apply(*reactorOptions)
}

type reactorOptions struct {
	closeOnShutdown bool
	logger          Logger
	onRound         func()
}

type optionFunc func(*reactorOptions)

func (f optionFunc) apply(o *reactorOptions) { f(o) }

// WithCloseDescriptorsOnShutdown opts into closing every tracked descriptor
// at teardown. Default false: the core does not own descriptors it never
// opened.
func WithCloseDescriptorsOnShutdown(v bool) Option {
	return optionFunc(func(o *reactorOptions) { o.closeOnShutdown = v })
}

// WithLogger attaches a structured logger. Defaults to a no-op logger.
func WithLogger(l Logger) Option {
	return optionFunc(func(o *reactorOptions) { o.logger = l })
}

// WithRoundObserver registers a callback invoked once per completed poll
// round (fired or not). Intended for metrics instrumentation; the Reactor
// itself has no opinion on what a round "costs".
func WithRoundObserver(fn func()) Option {
	return optionFunc(func(o *reactorOptions) { o.onRound = fn })
}

func resolveOptions(opts []Option) reactorOptions {
	o := reactorOptions{logger: noopLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&o)
		}
	}
	if o.logger == nil {
		o.logger = noopLogger{}
	}
	return o
}

// New constructs a Reactor with an indefinite default poll timeout
// (blocks until an event arrives). Call SetTimeout to change it before
// Run.
func New(opts ...Option) (*Reactor, error) {
	o := resolveOptions(opts)

	wake, err := newWakeupFD()
	if err != nil {
		return nil, fmt.Errorf("ioevent: creating wakeup descriptor: %w", err)
	}

	r := &Reactor{
		wake:    wake,
		logger:  o.logger,
		onRound: o.onRound,
	}
	r.closeOnShutdown = o.closeOnShutdown
	r.timeoutMs.Store(-1)
	return r, nil
}

// Subscribe appends a new subscription for fd/event, returning its
// correlation ID. Appending the same fd twice is permitted; both entries
// fire independently and are not deduplicated.
func (r *Reactor) Subscribe(fd int, event EventKind, cb Callback) (uuid.UUID, error) {
	if fd < 0 {
		return uuid.UUID{}, ErrInvalidDescriptor
	}

	sub := &subscription{id: uuid.New(), fd: fd, event: event, callback: cb}

	r.mu.Lock()
	r.table = append(r.table, sub)
	r.mu.Unlock()

	r.wake.Signal()
	r.logger.Log(LogEntry{Level: LevelDebug, Category: "reactor", Message: "subscribed", Context: map[string]any{"fd": fd, "event": event.String(), "id": sub.id}})
	return sub.id, nil
}

// Unsubscribe removes every subscription for fd, returning the number
// removed.
func (r *Reactor) Unsubscribe(fd int) (int, error) {
	if fd < 0 {
		return 0, ErrInvalidDescriptor
	}

	r.mu.Lock()
	kept := r.table[:0]
	removed := 0
	for _, s := range r.table {
		if s.fd == fd {
			removed++
			continue
		}
		kept = append(kept, s)
	}
	r.table = kept
	r.mu.Unlock()

	if removed > 0 {
		r.wake.Signal()
	}
	return removed, nil
}

// SetTimeout sets the per-round poll timeout in milliseconds. Negative
// means block indefinitely; zero means poll and return immediately;
// positive is a bound in milliseconds.
func (r *Reactor) SetTimeout(ms int) {
	r.timeoutMs.Store(int64(ms))
}

// Stop requests termination of the event loop. Idempotent; safe to call
// from any goroutine, including before Run.
func (r *Reactor) Stop() {
	if r.stopped.CompareAndSwap(false, true) {
		r.wake.Signal()
	}
}

// Close releases the reactor's wakeup descriptor, and, if
// WithCloseDescriptorsOnShutdown(true) was set, closes every descriptor
// still present in the subscription table. It is safe to call after Run
// has returned.
func (r *Reactor) Close() error {
	if r.closeOnShutdown {
		r.mu.Lock()
		seen := make(map[int]struct{})
		for _, s := range r.table {
			if _, ok := seen[s.fd]; ok {
				continue
			}
			seen[s.fd] = struct{}{}
			if err := closeFD(s.fd); err != nil {
				r.logger.Log(LogEntry{Level: LevelWarn, Category: "reactor", Message: "error closing descriptor at teardown", Err: err, Context: map[string]any{"fd": s.fd}})
			}
		}
		r.mu.Unlock()
	}
	return r.wake.Close()
}

// Len reports the number of live subscriptions. Exposed for tests and
// metrics; it has no bearing on dispatch.
func (r *Reactor) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.table)
}

// snapshotTable copies the current table under the lock so dispatch can run
// against a stable slice without holding the lock for the duration of every
// callback.
func (r *Reactor) snapshotTable() []*subscription {
	r.mu.Lock()
	defer r.mu.Unlock()
	snap := make([]*subscription, len(r.table))
	copy(snap, r.table)
	return snap
}

// removeByID deletes the subscription matching id, if still present. A
// Close-returning callback and a concurrent Unsubscribe can race on the
// same id; removeByID is idempotent under that race, a no-op on the second
// removal. An in-flight dispatch always runs to completion, and the
// resulting removal either beats or loses to a concurrent Unsubscribe
// harmlessly.
func (r *Reactor) removeByID(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, s := range r.table {
		if s.id == id {
			r.table = append(r.table[:i], r.table[i+1:]...)
			return
		}
	}
}
