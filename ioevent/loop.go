package ioevent

import "fmt"

// Run executes the event loop on the calling goroutine, blocking until Stop
// is called (or a poll error occurs). It must be called on exactly one
// goroutine at a time; Run panics if a second concurrent call is attempted.
func (r *Reactor) Run() error {
	if !r.running.CompareAndSwap(false, true) {
		panic("ioevent: Run called concurrently on the same Reactor")
	}
	defer r.running.Store(false)

	for {
		if r.stopped.Load() {
			return nil
		}
		if err := r.runRound(); err != nil {
			r.logger.Log(LogEntry{Level: LevelError, Category: "reactor", Message: "poll failed, terminating loop", Err: err})
			return err
		}
	}
}

// runRound performs exactly one iteration of the algorithm: snapshot,
// poll, dispatch fired slots.
func (r *Reactor) runRound() error {
	if r.onRound != nil {
		defer r.onRound()
	}

	snapshot := r.snapshotTable()

	fds := make([]pollFD, len(snapshot)+1)
	fds[0] = r.wake.pollFD()
	for i, sub := range snapshot {
		fds[i+1] = pollFD{FD: int32(sub.fd), Events: eventMask(sub.event)}
	}

	timeoutMs := int(r.timeoutMs.Load())
	n, err := poll(fds, timeoutMs)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPollFailed, err)
	}
	if n == 0 {
		return nil
	}

	if fds[0].Revents == eventMask(EventRead) {
		r.wake.drain()
	}

	for i, sub := range snapshot {
		entry := fds[i+1]
		want := eventMask(sub.event)
		if entry.Revents == 0 || entry.Revents != want {
			continue
		}

		status := sub.callback(sub.fd)
		if status == Close {
			r.removeByID(sub.id)
		}
	}

	return nil
}
