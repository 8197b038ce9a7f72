//go:build windows

package ioevent

// wakeupFD is a no-op stand-in on platforms where poll itself is
// unsupported (see poller_windows.go).
type wakeupFD struct{}

func newWakeupFD() (wakeupFD, error) { return wakeupFD{}, nil }

func (wakeupFD) pollFD() pollFD { return pollFD{} }
func (wakeupFD) Signal()        {}
func (wakeupFD) drain()         {}
func (wakeupFD) Close() error   { return nil }
