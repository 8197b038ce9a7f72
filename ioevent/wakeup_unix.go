//go:build !windows

package ioevent

import "golang.org/x/sys/unix"

// wakeupFD is the self-pipe used to force a blocked poll(2) call to return
// when subscribe/unsubscribe/stop mutate state the loop thread cannot
// otherwise observe until the current round's timeout elapses. The read end
// is kept non-blocking so a drain can always read until EAGAIN instead of
// guessing from a short read.
type wakeupFD struct {
	r int
	w int
}

func newWakeupFD() (wakeupFD, error) {
	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return wakeupFD{}, err
	}
	if err := unix.SetNonblock(fds[0], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return wakeupFD{}, err
	}
	if err := unix.SetNonblock(fds[1], true); err != nil {
		unix.Close(fds[0])
		unix.Close(fds[1])
		return wakeupFD{}, err
	}
	return wakeupFD{r: fds[0], w: fds[1]}, nil
}

// pollFD returns the read end registered for readability.
func (wk wakeupFD) pollFD() pollFD {
	return pollFD{FD: int32(wk.r), Events: eventMask(EventRead)}
}

// Signal writes a single byte, waking a blocked poll. Write errors are
// ignored: a full pipe buffer (extremely unlikely for single-byte writes)
// still means a wake is already pending, and EAGAIN on a non-blocking write
// means the same thing.
func (wk wakeupFD) Signal() {
	_, _ = unix.Write(wk.w, []byte{0})
}

// drain empties the pipe after a wake so it doesn't immediately fire again
// next round. It reads until the non-blocking fd reports EAGAIN rather than
// stopping on a short read, since a read of exactly len(buf) bytes would
// otherwise be mistaken for "more to come" and the next Read could block.
func (wk wakeupFD) drain() {
	buf := make([]byte, 64)
	for {
		_, err := unix.Read(wk.r, buf)
		if err != nil {
			return
		}
	}
}

func (wk wakeupFD) Close() error {
	werr := unix.Close(wk.w)
	rerr := unix.Close(wk.r)
	if werr != nil {
		return werr
	}
	return rerr
}
