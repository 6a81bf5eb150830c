package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	invocations      *prom.CounterVec
	dispatchDuration *prom.HistogramVec
}

// NewPrometheusRecorder constructs the collectors and registers them on reg.
func NewPrometheusRecorder(reg prom.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		invocations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "build_trigger",
			Name:      "invocations_total",
			Help:      "Trigger invocations by outcome",
		}, []string{"outcome"}),
		dispatchDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "build_trigger",
			Name:      "dispatch_duration_seconds",
			Help:      "Duration of workflow dispatch calls to the build system",
			Buckets:   prom.DefBuckets,
		}, []string{"result"}),
	}
	reg.MustRegister(pr.invocations, pr.dispatchDuration)
	return pr
}

func (p *PrometheusRecorder) IncTrigger(outcome string) {
	p.invocations.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) ObserveDispatch(d time.Duration, success bool) {
	result := "success"
	if !success {
		result = "failure"
	}
	p.dispatchDuration.WithLabelValues(result).Observe(d.Seconds())
}
