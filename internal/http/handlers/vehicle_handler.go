// README: Vehicle handlers for registration and release.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridepool/internal/modules/fleet"
	"ridepool/internal/types"
)

type VehicleHandler struct {
	fleet *fleet.Service
}

func NewVehicleHandler(svc *fleet.Service) *VehicleHandler {
	return &VehicleHandler{fleet: svc}
}

type registerVehicleReq struct {
	Capacity int         `json:"capacity"`
	Location types.Point `json:"location"`
}

func (h *VehicleHandler) Register(c *gin.Context) {
	var req registerVehicleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	v, err := h.fleet.Register(c.Request.Context(), fleet.RegisterCommand{
		Capacity: req.Capacity,
		Location: req.Location,
	})
	if err != nil {
		writeFleetError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, v)
}

func (h *VehicleHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	v, err := h.fleet.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeFleetError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, v)
}

// Release returns a vehicle to the pool after its ride.
func (h *VehicleHandler) Release(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid vehicle id")
		return
	}
	if err := h.fleet.Release(c.Request.Context(), types.ID(id)); err != nil {
		writeFleetError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"status": "available"})
}
