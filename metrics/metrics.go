package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indastreet_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "indastreet_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indastreet_bookings_created_total",
			Help: "Total number of bookings created",
		},
		[]string{"booking_type", "provider_type"},
	)

	BookingTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indastreet_booking_transitions_total",
			Help: "Booking lifecycle transitions by outcome",
		},
		[]string{"from", "to", "result"},
	)

	CommissionRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "indastreet_commission_recorded_total",
			Help: "Total number of commission records written",
		},
	)

	IdempotencyOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indastreet_idempotency_outcomes_total",
			Help: "Idempotent operation calls by outcome (executed, shared, cached, failed)",
		},
		[]string{"cache", "outcome"},
	)

	ContactViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indastreet_contact_violations_total",
			Help: "Contact-sharing violations detected in chat",
		},
		[]string{"type"},
	)

	ProximityViolationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "indastreet_proximity_violations_total",
			Help: "Proximity violations recorded by tier",
		},
		[]string{"tier"},
	)

	AccountRestrictionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "indastreet_account_restrictions_total",
			Help: "Accounts restricted after repeated violations",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBookingCreated(bookingType, providerType string) {
	BookingsCreatedTotal.WithLabelValues(bookingType, providerType).Inc()
}

func RecordTransition(from, to, result string) {
	BookingTransitionsTotal.WithLabelValues(from, to, result).Inc()
}

func RecordCommission() {
	CommissionRecordedTotal.Inc()
}

func RecordIdempotency(cache, outcome string) {
	IdempotencyOutcomesTotal.WithLabelValues(cache, outcome).Inc()
}

func RecordContactViolation(violationType string) {
	ContactViolationsTotal.WithLabelValues(violationType).Inc()
}

func RecordProximityViolation(tier string) {
	ProximityViolationsTotal.WithLabelValues(tier).Inc()
}

func RecordRestriction() {
	AccountRestrictionsTotal.Inc()
}
