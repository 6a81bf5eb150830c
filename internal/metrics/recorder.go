package metrics

import "time"

// Recorder defines observability hooks for build trigger invocations and
// dispatch calls. Implementations must be safe for concurrent use.
type Recorder interface {
	// IncTrigger counts one finished invocation. outcome is "success" or an error kind.
	IncTrigger(outcome string)
	ObserveDispatch(d time.Duration, success bool)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) IncTrigger(string)                    {}
func (NoopRecorder) ObserveDispatch(time.Duration, bool) {}
