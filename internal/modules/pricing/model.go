// README: Pricing inputs and the quote returned at booking time.
package pricing

import "ridepool/internal/types"

// Demand is a live snapshot taken when a booking is created.
type Demand struct {
	ActiveRequests    int `json:"active_requests"`
	AvailableVehicles int `json:"available_vehicles"`
}

type Quote struct {
	Fare       types.Money `json:"fare"`
	DistanceKm float64     `json:"distance_km"`
	Multiplier float64     `json:"multiplier"`
	Demand     Demand      `json:"demand"`
}
