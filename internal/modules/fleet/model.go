// README: Vehicle record; IsAvailable is the flag dispatch claims.
package fleet

import (
	"time"

	"ridepool/internal/types"
)

type Vehicle struct {
	ID          types.ID    `json:"id"`
	Capacity    int         `json:"capacity"`
	Location    types.Point `json:"location"`
	IsAvailable bool        `json:"is_available"`
	CreatedAt   time.Time   `json:"created_at"`
}
