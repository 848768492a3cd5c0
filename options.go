package gamedata

type options struct {
	logger      *Logger
	metrics     MetricsCollector
	numFeatures int
	name        string
}

// Option configures NewFixedEffectDataset.
type Option func(*options)

// WithLogger configures the logger for lifecycle events.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for lifecycle operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &gamedata.BasicMetricsCollector{}
//	ds, _ := gamedata.NewFixedEffectDataset(records, "global", gamedata.WithMetricsCollector(metrics))
//	// ... later
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}

// WithNumFeatures presets the feature vector length instead of deriving it
// from the first record. Values < 0 are ignored.
func WithNumFeatures(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.numFeatures = n
		}
	}
}

// WithName sets the diagnostic name of the dataset's records.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}
