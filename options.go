package asyncio

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/ptrIslam123/asyncio/ioevent"
	"github.com/ptrIslam123/asyncio/workerpool"
)

// DriverOption configures a Driver at construction time.
type DriverOption interface {
	apply(*driverOptions)
}

type driverOptions struct {
	maxQueueDepth   int
	closeOnShutdown bool
	logger          Logger
	registerer      prometheus.Registerer
}

type driverOptionFunc func(*driverOptions)

func (f driverOptionFunc) apply(o *driverOptions) { f(o) }

// WithMaxQueueDepth bounds the worker pool's queue depth; the pool's Submit
// returns ErrResourceExhausted once the bound is reached. Read and Write
// themselves do not return it: for Read the error is delivered through the
// returned Future, for Write it is only logged.
func WithMaxQueueDepth(n int) DriverOption {
	return driverOptionFunc(func(o *driverOptions) { o.maxQueueDepth = n })
}

// WithCloseDescriptorsOnShutdown controls whether the driver closes every
// tracked descriptor at teardown. Default false.
func WithCloseDescriptorsOnShutdown(v bool) DriverOption {
	return driverOptionFunc(func(o *driverOptions) { o.closeOnShutdown = v })
}

// WithLogger attaches a structured logger to the reactor, pool, and driver.
func WithLogger(l Logger) DriverOption {
	return driverOptionFunc(func(o *driverOptions) { o.logger = l })
}

// WithMetrics enables Prometheus instrumentation, registering against reg.
// Use prometheus.DefaultRegisterer for the global registry, or any
// dedicated prometheus.Registry in tests.
func WithMetrics(reg prometheus.Registerer) DriverOption {
	return driverOptionFunc(func(o *driverOptions) { o.registerer = reg })
}

func resolveDriverOptions(opts []DriverOption) driverOptions {
	o := driverOptions{logger: noopDriverLogger{}}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&o)
		}
	}
	if o.logger == nil {
		o.logger = noopDriverLogger{}
	}
	return o
}

type noopDriverLogger struct{}

func (noopDriverLogger) Log(LogEntry)           {}
func (noopDriverLogger) IsEnabled(LogLevel) bool { return false }

func (o driverOptions) reactorOptions(onRound func()) []ioevent.Option {
	opts := []ioevent.Option{
		ioevent.WithCloseDescriptorsOnShutdown(o.closeOnShutdown),
		ioevent.WithLogger(o.logger),
	}
	if onRound != nil {
		opts = append(opts, ioevent.WithRoundObserver(onRound))
	}
	return opts
}

func (o driverOptions) poolOptions() []workerpool.Option {
	var opts []workerpool.Option
	if o.maxQueueDepth > 0 {
		opts = append(opts, workerpool.WithMaxQueueDepth(o.maxQueueDepth))
	}
	return opts
}
