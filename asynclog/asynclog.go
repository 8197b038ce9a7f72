// Package asynclog adapts github.com/ptrIslam123/asyncio's Logger seam
// (ioevent.Logger, aliased as asyncio.Logger) onto
// github.com/joeycumines/logiface, using github.com/joeycumines/stumpy as
// the zero-allocation JSON writer.
package asynclog

import (
	"io"
	"os"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"

	"github.com/ptrIslam123/asyncio/ioevent"
)

// Adapter implements ioevent.Logger (and so asyncio.Logger) on top of a
// stumpy-backed logiface.Logger.
type Adapter struct {
	logger *logiface.Logger[*stumpy.Event]
	min    ioevent.LogLevel
}

// Option configures an Adapter.
type Option func(*config)

type config struct {
	writer io.Writer
	min    ioevent.LogLevel
}

// WithWriter sets the destination for JSON log lines. Defaults to
// os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.writer = w }
}

// WithMinLevel filters out entries below min before they ever reach
// logiface. Defaults to LevelDebug (everything passes through).
func WithMinLevel(min ioevent.LogLevel) Option {
	return func(c *config) { c.min = min }
}

// New constructs a stumpy-backed logging adapter.
func New(opts ...Option) *Adapter {
	c := config{writer: os.Stderr, min: ioevent.LevelDebug}
	for _, opt := range opts {
		opt(&c)
	}

	logger := stumpy.L.New(
		stumpy.L.WithStumpy(),
		stumpy.L.WithWriter(logiface.WriterFunc[*stumpy.Event](func(e *stumpy.Event) error {
			_, err := c.writer.Write(append(e.Bytes(), '\n'))
			return err
		})),
	)

	return &Adapter{logger: logger, min: c.min}
}

func (a *Adapter) IsEnabled(level ioevent.LogLevel) bool {
	return level >= a.min
}

// Log translates a LogEntry into a logiface builder chain, category and
// loop-specific fields attached via Str/Any, the error (if any) via Err,
// then commits with Log(message).
func (a *Adapter) Log(e ioevent.LogEntry) {
	if !a.IsEnabled(e.Level) {
		return
	}

	b := a.builder(e.Level)
	if e.Category != "" {
		b = b.Str("category", e.Category)
	}
	for k, v := range e.Context {
		b = b.Any(k, v)
	}
	if e.Err != nil {
		b = b.Err(e.Err)
	}
	b.Log(e.Message)
}

func (a *Adapter) builder(level ioevent.LogLevel) *logiface.Builder[*stumpy.Event] {
	switch level {
	case ioevent.LevelError:
		return a.logger.Err()
	case ioevent.LevelWarn:
		return a.logger.Warning()
	case ioevent.LevelInfo:
		return a.logger.Info()
	default:
		return a.logger.Debug()
	}
}
