// README: Ride record created when a matched group is committed to a vehicle.
package dispatch

import (
	"time"

	"ridepool/internal/types"
)

const StatusMatched = "MATCHED"

type Ride struct {
	ID              types.ID  `json:"id"`
	VehicleID       types.ID  `json:"vehicle_id"`
	Status          string    `json:"status"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	CreatedAt       time.Time `json:"created_at"`
}
