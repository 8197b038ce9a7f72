package asyncio

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus instrumentation for a Driver. Disabled by
// default (a nil *Metrics is a no-op throughout this package); enable it
// with WithMetrics.
type Metrics struct {
	activeSubscriptions     prometheus.GaugeFunc
	poolQueueDepth          prometheus.GaugeFunc
	pollRoundsTotal         prometheus.Counter
	poolTasksProcessedTotal prometheus.Counter
	poolTaskDuration        prometheus.Histogram
}

// newMetrics registers the driver's metrics against reg. subscriptionCount
// and queueDepth are called lazily by the registered GaugeFuncs, so they
// must remain valid for the metrics' lifetime (the Driver supplies its own
// Reactor.Len / Pool.QueueDepth methods).
func newMetrics(reg prometheus.Registerer, subscriptionCount, queueDepth func() float64) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		activeSubscriptions: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "asyncio",
			Name:      "active_subscriptions",
			Help:      "Number of live reactor subscriptions.",
		}, subscriptionCount),
		poolQueueDepth: factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "asyncio",
			Name:      "pool_queue_depth",
			Help:      "Number of tasks queued but not yet started in the worker pool.",
		}, queueDepth),
		pollRoundsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "asyncio",
			Name:      "poll_rounds_total",
			Help:      "Number of reactor poll rounds completed.",
		}),
		poolTasksProcessedTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "asyncio",
			Name:      "pool_tasks_processed_total",
			Help:      "Number of worker pool tasks executed.",
		}),
		poolTaskDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "asyncio",
			Name:      "pool_task_duration_seconds",
			Help:      "Execution duration of worker pool tasks.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) observeRound() {
	if m == nil {
		return
	}
	m.pollRoundsTotal.Inc()
}

func (m *Metrics) observeTask(d time.Duration) {
	if m == nil {
		return
	}
	m.poolTasksProcessedTotal.Inc()
	m.poolTaskDuration.Observe(d.Seconds())
}
