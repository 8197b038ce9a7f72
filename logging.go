package asyncio

import "github.com/ptrIslam123/asyncio/ioevent"

// Logger, LogEntry and LogLevel are aliases of the ioevent package's
// logging seam, so callers never need to import ioevent directly just to
// implement a backend. asynclog provides a logiface/stumpy implementation;
// NewDefaultLogger (default_logger.go) is the dependency-free fallback.
type (
	Logger   = ioevent.Logger
	LogEntry = ioevent.LogEntry
	LogLevel = ioevent.LogLevel
)

const (
	LevelDebug = ioevent.LevelDebug
	LevelInfo  = ioevent.LevelInfo
	LevelWarn  = ioevent.LevelWarn
	LevelError = ioevent.LevelError
)
