package fixedwindow

// MetricsRecorder receives guard decision metrics. Implementations must be
// safe for concurrent use; adapters for Prometheus, StatsD, etc. live with
// the application, not here.
type MetricsRecorder interface {
	// Add increments a counter metric by value.
	Add(name string, value float64, tags map[string]string)
	// Observe records a single observation, e.g. a latency sample.
	Observe(name string, value float64, tags map[string]string)
}

// NoOpRecorder is the default recorder. Having it in place keeps the hot
// path free of nil checks.
type NoOpRecorder struct{}

func (NoOpRecorder) Add(name string, value float64, tags map[string]string)     {}
func (NoOpRecorder) Observe(name string, value float64, tags map[string]string) {}
