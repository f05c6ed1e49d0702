// README: Vehicle position as returned by nearby lookups.
package location

import "ridepool/internal/types"

type VehicleLocation struct {
	VehicleID  types.ID    `json:"vehicle_id"`
	Position   types.Point `json:"position"`
	DistanceKm float64     `json:"distance_km"`
}
