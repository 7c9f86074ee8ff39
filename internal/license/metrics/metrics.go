// Package metrics provides Prometheus metrics for the licensing service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all licensing service metrics.
type Metrics struct {
	LicensesIssued  prometheus.Counter
	IssueRejections *prometheus.CounterVec // validation rejections by code

	FolioCollisions prometheus.Counter // generation retries caused by an existing folio
	FolioExhausted  prometheus.Counter // creations abandoned after max attempts

	Verifications *prometheus.CounterVec // verification outcomes: valid|invalid

	StoreDuration *prometheus.HistogramVec // store operation latency by operation
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the metrics on the given registerer. Tests pass their
// own registry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LicensesIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "medlicense_licenses_issued_total",
			Help: "Total number of licenses issued",
		}),
		IssueRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medlicense_license_issue_rejections_total",
			Help: "Total number of creation requests rejected by validation, by code",
		}, []string{"code"}),
		FolioCollisions: factory.NewCounter(prometheus.CounterOpts{
			Name: "medlicense_folio_collisions_total",
			Help: "Total number of folio generation attempts that collided with an existing folio",
		}),
		FolioExhausted: factory.NewCounter(prometheus.CounterOpts{
			Name: "medlicense_folio_generation_exhausted_total",
			Help: "Total number of creations abandoned after exhausting folio generation attempts",
		}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "medlicense_license_verifications_total",
			Help: "Total number of license verifications by result",
		}, []string{"result"}),
		StoreDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "medlicense_store_operation_duration_seconds",
			Help:    "Duration of license store operations",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}
