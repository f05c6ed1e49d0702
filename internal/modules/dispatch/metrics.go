package dispatch

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	groupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ridepool_dispatch_groups_total",
			Help: "Matched groups handed to dispatch, by result",
		},
		[]string{"result"},
	)

	groupDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ridepool_dispatch_group_duration_seconds",
			Help:    "Time spent committing one group",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func resultLabel(err error) string {
	switch {
	case err == nil:
		return "committed"
	case errors.Is(err, ErrNoVehicleAvailable):
		return "no_vehicle"
	case errors.Is(err, ErrVehicleClaimLost):
		return "claim_lost"
	case errors.Is(err, ErrBookingsChanged):
		return "bookings_changed"
	default:
		return "error"
	}
}
