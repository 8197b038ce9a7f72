//go:build !windows

package ioevent

import "golang.org/x/sys/unix"

// pollFD mirrors unix.PollFd's layout; kept as a distinct type so callers
// of this package never need to import golang.org/x/sys/unix directly.
type pollFD struct {
	FD      int32
	Events  int16
	Revents int16
}

// eventMask returns the POLLRDNORM/POLLWRNORM bit for a subscription's
// EventKind.
func eventMask(k EventKind) int16 {
	switch k {
	case EventWrite:
		return unix.POLLWRNORM
	default:
		return unix.POLLRDNORM
	}
}

// poll invokes the POSIX readiness primitive over fds with the given
// millisecond timeout (see SetTimeout for the three-branch semantics),
// returning the count of descriptors with a non-zero Revents, or the
// underlying syscall error (runRound wraps it in ErrPollFailed). An
// interrupted call (EINTR) is reported as zero ready descriptors.
func poll(fds []pollFD, timeoutMs int) (int, error) {
	raw := make([]unix.PollFd, len(fds))
	for i, f := range fds {
		raw[i] = unix.PollFd{Fd: f.FD, Events: f.Events}
	}

	n, err := unix.Poll(raw, timeoutMs)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}

	for i := range raw {
		fds[i].Revents = raw[i].Revents
	}
	return n, nil
}

// closeFD closes a tracked descriptor at teardown, used only when
// WithCloseDescriptorsOnShutdown(true) is set.
func closeFD(fd int) error {
	return unix.Close(fd)
}
