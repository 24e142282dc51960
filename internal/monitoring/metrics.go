package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reservations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_reservations_total",
			Help: "Reservation attempts by outcome",
		},
		[]string{"result"},
	)

	confirmations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_confirmations_total",
			Help: "Confirmation attempts by outcome",
		},
		[]string{"result"},
	)

	releases = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_releases_total",
			Help: "Released PENDING holds by reason",
		},
		[]string{"reason"},
	)

	reserveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_reserve_duration_seconds",
			Help:    "Duration of the full reserve flow",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
	)

	amountMismatches = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "booking_amount_mismatch_total",
			Help: "Confirm calls rejected because the captured amount differed from the booking total",
		},
	)
)

func TrackReservation(result string) {
	reservations.WithLabelValues(result).Inc()
}

func TrackConfirmation(result string) {
	confirmations.WithLabelValues(result).Inc()
}

func TrackRelease(reason string) {
	releases.WithLabelValues(reason).Inc()
}

func TrackAmountMismatch() {
	amountMismatches.Inc()
}

func ObserveReserveDuration(d time.Duration) {
	reserveDuration.Observe(d.Seconds())
}
