// README: Ride requests, matched groups and per-group dispatch outcomes.
package matching

import (
	"time"

	"ridepool/internal/modules/booking"
	"ridepool/internal/types"
)

// RideRequest is the matcher's read-only view of a pending booking.
type RideRequest struct {
	ID         types.ID
	UserID     types.ID
	Pickup     types.Point
	Dropoff    types.Point
	PickupTime time.Time
	Passengers int
}

// MatchedGroup is never mutated after Match returns. ReferenceDistanceKm is the
// direct pickup→dropoff distance of the first member.
type MatchedGroup struct {
	Requests            []RideRequest
	ReferenceDistanceKm float64
}

func (g MatchedGroup) Passengers() int {
	n := 0
	for _, r := range g.Requests {
		n += r.Passengers
	}
	return n
}

func (g MatchedGroup) BookingIDs() []types.ID {
	ids := make([]types.ID, len(g.Requests))
	for i, r := range g.Requests {
		ids[i] = r.ID
	}
	return ids
}

// Outcome is the result of committing one group. Err is nil when a ride was
// created; otherwise the group's bookings are still PENDING.
type Outcome struct {
	RideID     types.ID
	VehicleID  types.ID
	BookingIDs []types.ID
	Err        error
}

func (o Outcome) Committed() bool { return o.Err == nil }

// Report splits one trigger's outcomes into committed rides and groups left pending.
type Report struct {
	Considered int
	Matched    []Outcome
	Pending    []Outcome
}

func RequestFromBooking(b *booking.Booking) RideRequest {
	return RideRequest{
		ID:         b.ID,
		UserID:     b.UserID,
		Pickup:     b.Pickup,
		Dropoff:    b.Dropoff,
		PickupTime: b.PickupTime,
		Passengers: b.Passengers,
	}
}
