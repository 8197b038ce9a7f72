package asyncio

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ptrIslam123/asyncio/future"
	"github.com/ptrIslam123/asyncio/ioevent"
	"github.com/ptrIslam123/asyncio/workerpool"
)

// Driver is the public face of the runtime: it composes a Reactor and a
// WorkerPool behind the Read and Write operations.
//
// Read and Write are package-level generic functions, not methods: Go
// methods cannot carry their own type parameters, so the per-call result
// type V has to live on a free function taking *Driver as its first
// argument.
type Driver struct {
	reactor *ioevent.Reactor
	pool    *workerpool.Pool
	logger  Logger
	metrics *Metrics

	stopped atomic.Bool
	runErr  chan error
}

// clampWorkers reserves one logical thread for the reactor and bounds the
// remainder to a sane maximum regardless of what the caller passes.
func clampWorkers(threadCount int) int {
	n := threadCount - 1
	if n < 1 {
		return 1
	}
	if n > 256 {
		return 256
	}
	return n
}

// New constructs a Driver with threadCount OS threads worth of capacity
// (clamped per clampWorkers), spawning the reactor loop on a dedicated
// goroutine immediately. The returned Driver is ready to accept Read/Write
// calls.
func New(threadCount int, opts ...DriverOption) (*Driver, error) {
	o := resolveDriverOptions(opts)

	d := &Driver{
		logger: o.logger,
		runErr: make(chan error, 1),
	}

	reactorOpts := o.reactorOptions(func() { d.metrics.observeRound() })
	reactor, err := ioevent.New(reactorOpts...)
	if err != nil {
		return nil, err
	}
	d.reactor = reactor

	poolOpts := o.poolOptions()
	poolOpts = append(poolOpts, workerpool.WithTaskObserver(func(dur time.Duration) { d.metrics.observeTask(dur) }))
	poolOpts = append(poolOpts, workerpool.WithPanicHandler(func(id uuid.UUID, r any) {
		d.logger.Log(LogEntry{Level: LevelError, Category: "pool", Message: "task panicked", Context: map[string]any{"task_id": id, "panic": r}})
	}))
	d.pool = workerpool.New(clampWorkers(threadCount), poolOpts...)

	if o.registerer != nil {
		d.metrics = newMetrics(o.registerer,
			func() float64 { return float64(d.reactor.Len()) },
			func() float64 { return float64(d.pool.QueueDepth()) },
		)
	}

	go func() { d.runErr <- d.reactor.Run() }()

	return d, nil
}

// Stopped reports whether Close has been called.
func (d *Driver) Stopped() bool {
	return d.stopped.Load()
}

// Close requests reactor termination, waits for both the reactor goroutine
// and a full worker pool drain, and releases the reactor's wakeup
// descriptor. Safe to call more than once; only the first call does work.
func (d *Driver) Close() error {
	if !d.stopped.CompareAndSwap(false, true) {
		return nil
	}

	d.reactor.Stop()

	var g errgroup.Group
	g.Go(func() error { return <-d.runErr })
	g.Go(func() error {
		d.pool.Join()
		return nil
	})
	err := g.Wait()

	if cerr := d.reactor.Close(); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// Read subscribes fd for readability and runs handler on the worker pool
// once it fires, delivering handler's result through the returned Future.
// The subscription is one-shot (the callback always returns Close). The
// handler and the backing Promise are captured by the callback closure, so
// both stay alive until the pool task runs Promise.Set, without any
// reference-to-stack-frame trick. If handler panics, the panic is
// recovered, logged, and delivered to the Future as a *PanicError instead
// of crashing the worker or leaving the Future to hang.
func Read[V any](d *Driver, fd int, handler func(fd int) V) (*future.Future[V], error) {
	if d.stopped.Load() {
		return nil, ErrStopped
	}

	p := future.New[V]()
	fut, err := p.Future()
	if err != nil {
		return nil, err
	}

	_, err = d.reactor.Subscribe(fd, ioevent.EventRead, func(fd int) ioevent.DescriptorStatus {
		if _, serr := d.pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Log(LogEntry{Level: LevelError, Category: "driver", Message: "read handler panicked", Context: map[string]any{"fd": fd, "panic": r}})
					if perr := p.Fail(&PanicError{Value: r}); perr != nil {
						d.logger.Log(LogEntry{Level: LevelWarn, Category: "driver", Message: "promise already resolved before panic recovery", Err: perr, Context: map[string]any{"fd": fd}})
					}
				}
			}()
			v := handler(fd)
			if perr := p.Set(v); perr != nil {
				d.logger.Log(LogEntry{Level: LevelWarn, Category: "driver", Message: "promise already set", Err: perr, Context: map[string]any{"fd": fd}})
			}
		}); serr != nil {
			d.logger.Log(LogEntry{Level: LevelWarn, Category: "driver", Message: "failed to submit read task", Err: serr, Context: map[string]any{"fd": fd}})
			if perr := p.Fail(serr); perr != nil {
				d.logger.Log(LogEntry{Level: LevelWarn, Category: "driver", Message: "promise already resolved before submit failure", Err: perr, Context: map[string]any{"fd": fd}})
			}
		}
		return ioevent.Close
	})
	if err != nil {
		return nil, err
	}

	return fut, nil
}

// Write subscribes fd for writability and runs handler on the worker pool
// once it fires. handler's result is discarded; callers who want the
// value use Read instead. If handler panics, the panic is recovered and
// logged the same way a submission failure is, rather than crashing the
// worker.
func Write[V any](d *Driver, fd int, handler func(fd int) V) error {
	if d.stopped.Load() {
		return ErrStopped
	}

	_, err := d.reactor.Subscribe(fd, ioevent.EventWrite, func(fd int) ioevent.DescriptorStatus {
		if _, serr := d.pool.Submit(func() {
			defer func() {
				if r := recover(); r != nil {
					d.logger.Log(LogEntry{Level: LevelError, Category: "driver", Message: "write handler panicked", Context: map[string]any{"fd": fd, "panic": r}})
				}
			}()
			_ = handler(fd)
		}); serr != nil {
			d.logger.Log(LogEntry{Level: LevelWarn, Category: "driver", Message: "failed to submit write task", Err: serr, Context: map[string]any{"fd": fd}})
		}
		return ioevent.Close
	})
	return err
}
