// Package promstats exports store metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	stats, err := promstats.New(reg, promstats.WithNamespace("shop"))
//	store := recstore.New[int64](schema, recstore.WithMetricsCollector(stats))
package promstats

import (
	"time"

	"github.com/hupe1980/recstore"
	"github.com/prometheus/client_golang/prometheus"
)

// Operation label values.
const (
	OpAdd      = "add"
	OpBatchAdd = "batch_add"
	OpRemove   = "remove"
	OpGet      = "get"
	OpQuery    = "query"
)

// Status label values.
const (
	StatusOK    = "ok"
	StatusError = "error"
	StatusMiss  = "miss"
)

// Collector implements recstore.MetricsCollector on Prometheus metrics.
type Collector struct {
	ops     *prometheus.CounterVec
	latency *prometheus.HistogramVec
	matches prometheus.Histogram
}

var _ recstore.MetricsCollector = (*Collector)(nil)

// Options configures New.
type Options struct {
	Namespace   string
	ConstLabels prometheus.Labels
	Buckets     []float64
}

// Option configures New.
type Option func(*Options)

// WithNamespace prefixes every metric name. Defaults to "recstore".
func WithNamespace(ns string) Option {
	return func(o *Options) { o.Namespace = ns }
}

// WithConstLabels attaches labels to every metric, e.g. the collection name.
func WithConstLabels(labels prometheus.Labels) Option {
	return func(o *Options) { o.ConstLabels = labels }
}

// WithBuckets sets the latency histogram buckets in seconds.
func WithBuckets(buckets []float64) Option {
	return func(o *Options) { o.Buckets = buckets }
}

// New creates a Collector and registers its metrics with reg.
func New(reg prometheus.Registerer, optFns ...Option) (*Collector, error) {
	opts := Options{
		Namespace: "recstore",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	c := &Collector{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   opts.Namespace,
			Name:        "operations_total",
			Help:        "Store operations, partitioned by operation and status.",
			ConstLabels: opts.ConstLabels,
		}, []string{"op", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "operation_duration_seconds",
			Help:        "Latency of store operations.",
			ConstLabels: opts.ConstLabels,
			Buckets:     opts.Buckets,
		}, []string{"op"}),
		matches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   opts.Namespace,
			Name:        "query_matches",
			Help:        "Number of records returned per successful query.",
			ConstLabels: opts.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	for _, col := range []prometheus.Collector{c.ops, c.latency, c.matches} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordAdd implements recstore.MetricsCollector.
func (c *Collector) RecordAdd(d time.Duration, err error) {
	c.observe(OpAdd, errStatus(err), d)
}

// RecordBatchAdd implements recstore.MetricsCollector.
func (c *Collector) RecordBatchAdd(count, failed int, d time.Duration) {
	status := StatusOK
	if failed > 0 {
		status = StatusError
	}
	c.observe(OpBatchAdd, status, d)
}

// RecordRemove implements recstore.MetricsCollector.
func (c *Collector) RecordRemove(d time.Duration, found bool) {
	c.observe(OpRemove, foundStatus(found), d)
}

// RecordGet implements recstore.MetricsCollector.
func (c *Collector) RecordGet(d time.Duration, found bool) {
	c.observe(OpGet, foundStatus(found), d)
}

// RecordQuery implements recstore.MetricsCollector.
func (c *Collector) RecordQuery(matched int, d time.Duration, err error) {
	c.observe(OpQuery, errStatus(err), d)
	if err == nil {
		c.matches.Observe(float64(matched))
	}
}

func (c *Collector) observe(op, status string, d time.Duration) {
	c.ops.WithLabelValues(op, status).Inc()
	c.latency.WithLabelValues(op).Observe(d.Seconds())
}

func errStatus(err error) string {
	if err != nil {
		return StatusError
	}
	return StatusOK
}

func foundStatus(found bool) string {
	if found {
		return StatusOK
	}
	return StatusMiss
}
