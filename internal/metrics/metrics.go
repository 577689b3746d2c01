// Package metrics exposes Prometheus collectors for forecast exchanges and
// exports.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	OutcomeSuccess          = "success"
	OutcomeRejected         = "rejected"
	OutcomeServerRejected   = "server_rejected"
	OutcomeTransportFailure = "transport_failure"
	OutcomeCanceled         = "canceled"
	OutcomeMalformed        = "malformed"
)

var (
	exchangesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stock_forecast",
			Name:      "exchanges_total",
			Help:      "Forecast submission cycles, partitioned by outcome.",
		},
		[]string{"outcome"},
	)

	exchangeDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "stock_forecast",
			Name:      "exchange_seconds",
			Help:      "Forecast engine round-trip latency in seconds.",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60, 120},
		},
	)

	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "stock_forecast",
			Name:      "exports_total",
			Help:      "Report documents written, partitioned by format.",
		},
		[]string{"format"},
	)

	loading = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "stock_forecast",
			Name:      "request_in_flight",
			Help:      "1 while a forecast request is pending.",
		},
	)
)

// Register attaches the collectors to the supplied Prometheus registerer.
func Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		exchangesTotal,
		exchangeDurationSeconds,
		exportsTotal,
		loading,
	}

	for _, collector := range collectors {
		if err := reg.Register(collector); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
				continue
			}
			return err
		}
	}
	return nil
}

// ObserveExchange records a submission outcome and, for cycles that reached
// the engine, its latency.
func ObserveExchange(duration time.Duration, outcome string) {
	exchangesTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeRejected {
		return
	}
	if duration < 0 {
		duration = 0
	}
	exchangeDurationSeconds.Observe(duration.Seconds())
}

// ObserveExport counts a written document.
func ObserveExport(format string) {
	exportsTotal.WithLabelValues(format).Inc()
}

// SetLoading mirrors the controller's loading flag.
func SetLoading(on bool) {
	if on {
		loading.Set(1)
		return
	}
	loading.Set(0)
}
