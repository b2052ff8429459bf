// Package metrics holds the Prometheus collectors of the service. All
// collectors register with the default registry and are exposed by the
// /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route template, method and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sisnompeg_http_requests_total",
		Help: "Total HTTP requests by route, method and status",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sisnompeg_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~10s
	}, []string{"route", "method"})

	// KGBAdvanced counts salary-step advancements that were delivered.
	KGBAdvanced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sisnompeg_kgb_advanced_total",
		Help: "Total salary-step advancements delivered to the administrator",
	})

	// KGBFailures counts per-record failures by stage (update, notification, revert).
	KGBFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sisnompeg_kgb_failures_total",
		Help: "Total per-record KGB failures by stage",
	}, []string{"stage"})

	// KGBSkipped counts records another pass advanced first.
	KGBSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sisnompeg_kgb_skipped_total",
		Help: "Total due records skipped because a concurrent pass won them",
	})

	KGBLastPass = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sisnompeg_kgb_last_pass_timestamp_seconds",
		Help: "Unix time of the last completed KGB pass",
	})
)
