package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce             sync.Once
	httpRequestsTotal        *prometheus.CounterVec
	httpLatencySeconds       *prometheus.HistogramVec
	httpErrorsTotal          *prometheus.CounterVec
	enrollmentsTotal         prometheus.Counter
	dropsTotal               prometheus.Counter
	capacityRejectionsTotal  prometheus.Counter
	duplicateRejectionsTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sira_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sira_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sira_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		enrollmentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sira_enrollments_total",
			Help: "Total number of successful course enrollments.",
		})

		dropsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sira_drops_total",
			Help: "Total number of registrations dropped or deleted.",
		})

		capacityRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sira_capacity_rejections_total",
			Help: "Total number of enrollments rejected because the course was full.",
		})

		duplicateRejectionsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sira_duplicate_rejections_total",
			Help: "Total number of enrollments rejected as duplicates.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			enrollmentsTotal,
			dropsTotal,
			capacityRejectionsTotal,
			duplicateRejectionsTotal,
		)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Enrollments exposes the successful-enrollment counter.
func Enrollments() prometheus.Counter {
	RegisterMetrics()
	return enrollmentsTotal
}

// Drops exposes the drop/delete counter.
func Drops() prometheus.Counter {
	RegisterMetrics()
	return dropsTotal
}

// CapacityRejections exposes the course-full rejection counter.
func CapacityRejections() prometheus.Counter {
	RegisterMetrics()
	return capacityRejectionsTotal
}

// DuplicateRejections exposes the duplicate-registration rejection counter.
func DuplicateRejections() prometheus.Counter {
	RegisterMetrics()
	return duplicateRejectionsTotal
}
