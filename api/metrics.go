package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	codecBytesTotal     *prometheus.CounterVec
	codecErrorsTotal    *prometheus.CounterVec
}

// NewMetrics registers the server's collectors on a private registry so that
// several servers can coexist in one process.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "binobj_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "binobj_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		codecBytesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "binobj_codec_bytes_total",
				Help: "Bytes decoded from requests and encoded into responses",
			},
			[]string{"codec", "direction"},
		),
		codecErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "binobj_codec_errors_total",
				Help: "Requests rejected because their body could not be decoded",
			},
			[]string{"codec"},
		),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordDecoded(codec string, n int) {
	m.codecBytesTotal.WithLabelValues(codec, "in").Add(float64(n))
}

func (m *Metrics) RecordEncoded(codec string, n int) {
	m.codecBytesTotal.WithLabelValues(codec, "out").Add(float64(n))
}

func (m *Metrics) RecordCodecError(codec string) {
	m.codecErrorsTotal.WithLabelValues(codec).Inc()
}
