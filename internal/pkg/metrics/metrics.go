package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuedesk_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "code"},
	)

	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuedesk_bookings_created_total",
			Help: "Total bookings created, by priority",
		},
		[]string{"priority"},
	)

	BookingConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "venuedesk_booking_conflicts_total",
			Help: "Total availability conflicts reported to callers",
		},
	)

	PaymentsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "venuedesk_payments_recorded_total",
			Help: "Total payments recorded against bookings",
		},
	)

	ReconciliationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "venuedesk_reconciliations_total",
			Help: "Payment-status reconciliation runs, by outcome",
		},
		[]string{"outcome"},
	)
)

// RegisterWSConnections exposes a live websocket connection count as a
// gauge sampled on every scrape.
func RegisterWSConnections(count func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "venuedesk_ws_connections",
			Help: "Currently connected slot-grid websocket clients",
		},
		func() float64 { return float64(count()) },
	)
}

// Handler exposes the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
