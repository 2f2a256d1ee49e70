// Package metrics is the thin facade the pipeline instruments against.
//
// The core depends only on Backend; concrete exporters (Datadog) live in
// subpackages and are selected at startup. The default backend is a nop, so
// instrumentation is free when metrics are disabled.
//
// Metric names used by the pipeline:
//
//	messygen_rows_total{kind}             rows produced (kind=expanded|duplicated|final)
//	messygen_cells_corrupted_total{pass}  cells overwritten per corruption pass
//	messygen_step_total{step,status}      pipeline step completions
//	messygen_step_duration_seconds{step,status}  step latency samples
package metrics

import "sync"

// Labels are free-form metric dimensions.
type Labels map[string]string

// Backend receives metric observations. Implementations must be safe for
// concurrent use.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
}

// Flusher is optionally implemented by backends that buffer.
type Flusher interface {
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}

var (
	mu      sync.RWMutex
	current Backend = nopBackend{}
)

// SetBackend installs the process-wide backend. Call once at startup.
func SetBackend(b Backend) {
	mu.Lock()
	defer mu.Unlock()
	if b == nil {
		current = nopBackend{}
		return
	}
	current = b
}

func backend() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// IncCounter increments a counter on the installed backend.
func IncCounter(name string, delta float64, labels Labels) {
	backend().IncCounter(name, delta, labels)
}

// ObserveHistogram records a sample on the installed backend.
func ObserveHistogram(name string, value float64, labels Labels) {
	backend().ObserveHistogram(name, value, labels)
}

// Flush flushes the installed backend if it buffers.
func Flush() error {
	if f, ok := backend().(Flusher); ok {
		return f.Flush()
	}
	return nil
}
