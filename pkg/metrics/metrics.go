package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Availability engine metrics
	EvaluationsTotal   *prometheus.CounterVec
	EvaluationDuration *prometheus.HistogramVec

	// Upstream source metrics
	CalendarFetchFailures prometheus.Counter

	// Booking metrics
	BookingsCreated   prometheus.Counter
	BookingsCancelled prometheus.Counter
	BookingsRejected  *prometheus.CounterVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		EvaluationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "availability_evaluations_total",
			Help:      "Total number of day availability evaluations",
		}, []string{"kind"}),
		EvaluationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "availability_evaluation_duration_seconds",
			Help:      "Time spent evaluating a day's availability, upstream fetches included",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"kind"}),
		CalendarFetchFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calendar_fetch_failures_total",
			Help:      "Total number of external calendar fetches that degraded to conflict-free",
		}),
		BookingsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Total number of bookings created",
		}),
		BookingsCancelled: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_cancelled_total",
			Help:      "Total number of bookings cancelled",
		}),
		BookingsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_rejected_total",
			Help:      "Total number of booking attempts rejected, by reason",
		}, []string{"reason"}),
	}
}

// ObserveEvaluation records one day evaluation for a consultation kind.
func (m *Metrics) ObserveEvaluation(kind string, elapsed time.Duration) {
	m.EvaluationsTotal.WithLabelValues(kind).Inc()
	m.EvaluationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
}
