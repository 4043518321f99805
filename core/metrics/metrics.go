// Package metrics provides abstract metric interfaces so core packages can
// be instrumented without coupling to a specific backend (Prometheus, StatsD,
// etc.). Adapters implement these interfaces against a real backend.
package metrics

// Timer measures the duration of an operation. Call ObserveDuration when
// the operation completes to record the elapsed time.
type Timer interface {
	// ObserveDuration records the elapsed time since the timer was created.
	ObserveDuration()
}
