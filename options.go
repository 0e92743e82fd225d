package recstore

type options struct {
	indexedFields    []Field
	metricsCollector MetricsCollector
}

// Option configures a Store.
type Option func(*options)

// WithIndexedFields maintains a Roaring Bitmap inverted index over the given
// fields. Equality and `in` conditions passed to QueryBuilder.WithMetadata on
// these fields are answered from the index instead of a full scan.
//
// Fields not declared in the store schema are ignored.
func WithIndexedFields(fields ...Field) Option {
	return func(o *options) {
		o.indexedFields = append(o.indexedFields, fields...)
	}
}

// WithMetricsCollector configures the collector notified after each store
// operation.
//
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}
