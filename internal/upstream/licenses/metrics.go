package licenses

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics observes calls to the Licensing Service.
type Metrics struct {
	Requests *prometheus.CounterVec   // by operation and outcome: ok|not_found|error
	Duration *prometheus.HistogramVec // by operation
}

// NewMetrics creates metrics registered on the default registry.
func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics on the given registerer.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medlicense_upstream_requests_total",
			Help: "Total number of requests to the licensing service by operation and outcome",
		}, []string{"operation", "outcome"}),
		Duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medlicense_upstream_request_duration_seconds",
			Help:    "Duration of requests to the licensing service by operation",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}
