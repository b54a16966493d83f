package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Total tickets committed per event",
		},
		[]string{"event_id"},
	)

	issuanceRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "issuance_rejections_total",
			Help: "Issuance requests rejected, by reason",
		},
		[]string{"reason"},
	)

	issuanceDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "issuance_duration_seconds",
			Help:    "Duration of committed issuance transactions",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
	)

	ticketScans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_scans_total",
			Help: "Ticket scans by outcome",
		},
		[]string{"result"},
	)

	fulfillmentFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fulfillment_failures_total",
			Help: "Post-issuance side effects that failed, by stage",
		},
		[]string{"stage"},
	)
)

const (
	ScanSuccess     = "success"
	ScanAlreadyUsed = "already_used"
	ScanNotFound    = "not_found"
	ScanForbidden   = "forbidden"
	ScanError       = "error"
)

func TicketsIssued(eventID string, quantity int, took time.Duration) {
	ticketsIssued.WithLabelValues(eventID).Add(float64(quantity))
	issuanceDuration.Observe(took.Seconds())
}

func IssuanceRejected(reason string) {
	issuanceRejections.WithLabelValues(reason).Inc()
}

func TicketScanned(result string) {
	ticketScans.WithLabelValues(result).Inc()
}

func FulfillmentFailed(stage string) {
	fulfillmentFailures.WithLabelValues(stage).Inc()
}
