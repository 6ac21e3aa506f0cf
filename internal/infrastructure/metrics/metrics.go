package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "walletprobe"

var (
	ChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checks_total",
			Help:      "Evaluated checks by name and result.",
		},
		[]string{"check", "result"}, // result: pass|fail
	)

	IterationsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "iterations_total",
			Help:      "Completed probe iterations.",
		},
	)

	IterationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "iteration_duration_seconds",
			Help:      "Time spent in the three requests of an iteration.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	ActiveVUs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_vus",
			Help:      "Virtual users currently looping.",
		},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of requests sent to the wallet service.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation", "status"},
	)

	RequestErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_request_errors_total",
			Help:      "Requests that produced no HTTP response.",
		},
		[]string{"operation"},
	)

	initOnce sync.Once
)

// Handler serves the default registry for /metrics
var Handler = promhttp.Handler

// Init registers the collectors with the default registry
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(ChecksTotal)
		prometheus.MustRegister(IterationsTotal)
		prometheus.MustRegister(IterationDuration)
		prometheus.MustRegister(ActiveVUs)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(RequestErrors)
	})
}

// CheckResultLabel maps a check outcome to its label value
func CheckResultLabel(passed bool) string {
	if passed {
		return "pass"
	}
	return "fail"
}
