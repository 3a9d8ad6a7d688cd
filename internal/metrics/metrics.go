package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ConversionRequestsTotal prometheus.Counter
	DecisionRequestsTotal   prometheus.Counter
	ProxyRequestsTotal      *prometheus.CounterVec

	UpstreamRequestsTotal *prometheus.CounterVec
	RefreshTotal          *prometheus.CounterVec
	StaleBatchesDiscarded prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		ConversionRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "conversion_requests_total",
				Help: "Total number of currency conversion requests",
			},
		),

		DecisionRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "decision_requests_total",
				Help: "Total number of exchange-timing decision requests",
			},
		),

		ProxyRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "proxy_requests_total",
				Help: "Total number of upstream proxy requests",
			},
			[]string{"endpoint", "outcome"},
		),

		UpstreamRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "upstream_requests_total",
				Help: "Total number of upstream FX API requests",
			},
			[]string{"source", "outcome"},
		),

		RefreshTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_refresh_total",
				Help: "Total number of full rate refreshes",
			},
			[]string{"outcome"},
		),

		StaleBatchesDiscarded: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "stale_batches_discarded_total",
				Help: "Total number of historical batches discarded for arriving after a newer batch",
			},
		),
	}
}
