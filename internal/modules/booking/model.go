// README: Booking aggregate and status definitions.
package booking

import (
	"time"

	"ridepool/internal/types"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
)

type Booking struct {
	ID         types.ID    `json:"id"`
	UserID     types.ID    `json:"user_id"`
	Pickup     types.Point `json:"pickup"`
	Dropoff    types.Point `json:"dropoff"`
	PickupTime time.Time   `json:"pickup_time"`
	Passengers int         `json:"passengers"`
	Status     Status      `json:"status"`
	Fare       types.Money `json:"fare"`
	RideID     *types.ID   `json:"ride_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AllowedTransitions represents the booking state flow as code. CONFIRMED is terminal.
var AllowedTransitions = map[Status][]Status{
	StatusPending: {StatusConfirmed},
}

func CanTransition(from, to Status) bool {
	next, ok := AllowedTransitions[from]
	if !ok {
		return false
	}
	for _, s := range next {
		if s == to {
			return true
		}
	}
	return false
}
