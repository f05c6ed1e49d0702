// README: Booking handlers for create/get.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ridepool/internal/modules/booking"
	"ridepool/internal/types"
)

type BookingHandler struct {
	booking *booking.Service
}

func NewBookingHandler(svc *booking.Service) *BookingHandler {
	return &BookingHandler{booking: svc}
}

type createBookingReq struct {
	UserID     string       `json:"user_id"`
	Pickup     *types.Point `json:"pickup"`
	Dropoff    *types.Point `json:"dropoff"`
	PickupTime *time.Time   `json:"pickup_time"`
	Passengers int          `json:"passengers"`
}

func (h *BookingHandler) Create(c *gin.Context) {
	var req createBookingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.UserID == "" || req.Pickup == nil || req.Dropoff == nil {
		writeError(c, http.StatusBadRequest, "missing required fields")
		return
	}
	if req.Passengers == 0 {
		req.Passengers = 1
	}

	cmd := booking.CreateCommand{
		UserID:     types.ID(req.UserID),
		Pickup:     *req.Pickup,
		Dropoff:    *req.Dropoff,
		Passengers: req.Passengers,
	}
	if req.PickupTime != nil {
		cmd.PickupTime = *req.PickupTime
	}

	res, err := h.booking.Create(c.Request.Context(), cmd)
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, gin.H{
		"booking_id":      res.BookingID,
		"status":          res.Status,
		"estimated_price": res.Quote.Fare,
		"distance_km":     res.Quote.DistanceKm,
		"multiplier":      res.Quote.Multiplier,
	})
}

func (h *BookingHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, "invalid booking id")
		return
	}
	b, err := h.booking.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeBookingError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, b)
}
