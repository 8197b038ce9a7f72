// Package oneshot provides a single-value, write-once, read-once
// rendezvous primitive shared by a producer and a consumer across
// goroutines.
//
// A [Cell] starts Empty, transitions to Ready exactly once when a value is
// deposited via [Cell.Put], and transitions to Consumed exactly once when a
// value is withdrawn via [Cell.TakeOrWait]. No other transitions are legal.
package oneshot

import (
	"errors"
	"sync"
)

var (
	// ErrAlreadySet is returned by Put when the cell already holds a value.
	ErrAlreadySet = errors.New("oneshot: value already set")

	// ErrConsumed is returned by TakeOrWait when the cell's value has
	// already been withdrawn by a previous call.
	ErrConsumed = errors.New("oneshot: value already consumed")
)

// state values for Cell, in the order Empty -> Ready -> Consumed.
const (
	stateEmpty uint8 = iota
	stateReady
	stateConsumed
)

// Cell is a single-slot handoff: at most one Put succeeds, at most one
// TakeOrWait returns the deposited value. The zero value is a valid, empty
// cell; its condition variable is initialized lazily on first use.
//
// The authoritative state lives under mu; cond wakes waiters blocked in
// TakeOrWait when Put transitions Empty -> Ready.
type Cell[T any] struct {
	mu    sync.Mutex
	once  sync.Once
	cond  *sync.Cond
	state uint8
	value T
}

// New returns an initialized, empty Cell.
func New[T any]() *Cell[T] {
	return &Cell[T]{}
}

// condVar returns the cell's condition variable, initializing it on first
// use. Safe to call with mu already held.
func (c *Cell[T]) condVar() *sync.Cond {
	c.once.Do(func() { c.cond = sync.NewCond(&c.mu) })
	return c.cond
}

// Put deposits v, if the cell is still Empty, and wakes any goroutine
// blocked in TakeOrWait. It returns ErrAlreadySet if a value has already
// been deposited (regardless of whether it has been consumed yet).
func (c *Cell[T]) Put(v T) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != stateEmpty {
		return ErrAlreadySet
	}

	c.value = v
	c.state = stateReady
	c.condVar().Broadcast()
	return nil
}

// IsReady reports whether a value has been deposited, without blocking.
// It does not distinguish Ready from Consumed; use it only as an advisory,
// non-blocking check.
func (c *Cell[T]) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state != stateEmpty
}

// TakeOrWait returns the deposited value, blocking the calling goroutine
// until one is available if necessary. A second call (after the first
// successfully withdraws the value) returns ErrConsumed. There is no
// built-in timeout; wrap the call externally (e.g. with a goroutine and a
// select on a context) if one is needed.
func (c *Cell[T]) TakeOrWait() (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for c.state == stateEmpty {
		c.condVar().Wait()
	}

	if c.state == stateConsumed {
		var zero T
		return zero, ErrConsumed
	}

	v := c.value
	var zero T
	c.value = zero // drop the reference so it can be collected
	c.state = stateConsumed
	return v, nil
}
