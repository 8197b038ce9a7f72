//go:build windows

package ioevent

import "errors"

// errUnsupportedPlatform is returned by poll on platforms without a POSIX
// poll(2) equivalent wired up. The core's readiness primitive targets
// POSIX descriptors; a Windows backend (IOCP or similar) is not implemented
// here.
var errUnsupportedPlatform = errors.New("ioevent: poll(2) is not available on this platform")

type pollFD struct {
	FD      int32
	Events  int16
	Revents int16
}

func eventMask(k EventKind) int16 {
	return 0
}

func poll(fds []pollFD, timeoutMs int) (int, error) {
	return 0, errUnsupportedPlatform
}

func closeFD(fd int) error {
	return errUnsupportedPlatform
}
