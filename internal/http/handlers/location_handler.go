// README: Location handlers for position updates and nearby lookups.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ridepool/internal/modules/location"
	"ridepool/internal/types"
)

const defaultNearbyRadiusKm = 5.0

type LocationHandler struct {
	location *location.Service
}

func NewLocationHandler(svc *location.Service) *LocationHandler {
	return &LocationHandler{location: svc}
}

func (h *LocationHandler) Update(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	var p types.Point
	if err := c.ShouldBindJSON(&p); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if err := h.location.Update(c.Request.Context(), location.Update{VehicleID: types.ID(id), Position: p}); err != nil {
		writeLocationError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "ok"})
}

// Nearby answers GET /api/vehicles/nearby?lat=..&lng=..&radius_km=..
func (h *LocationHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "lat and lng are required")
		return
	}
	radius := defaultNearbyRadiusKm
	if v := c.Query("radius_km"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(c, http.StatusBadRequest, "invalid radius_km")
			return
		}
		radius = r
	}

	vehicles, err := h.location.Nearby(c.Request.Context(), types.Point{Lat: lat, Lng: lng}, radius)
	if err != nil {
		writeLocationError(c, err)
		return
	}
	if vehicles == nil {
		vehicles = []location.VehicleLocation{}
	}
	writeJSON(c, http.StatusOK, gin.H{"vehicles": vehicles})
}
