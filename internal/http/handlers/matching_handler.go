// README: Matching trigger handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridepool/internal/modules/matching"
	"ridepool/internal/types"
)

type MatchingHandler struct {
	matching *matching.Service
}

func NewMatchingHandler(svc *matching.Service) *MatchingHandler {
	return &MatchingHandler{matching: svc}
}

type matchDetail struct {
	RideID    types.ID   `json:"ride_id"`
	VehicleID types.ID   `json:"vehicle_id"`
	Bookings  []types.ID `json:"bookings"`
}

type pendingDetail struct {
	Bookings []types.ID `json:"bookings"`
	Reason   string     `json:"reason"`
}

// Trigger runs one matching pass. Groups that fail to commit are listed
// under "pending"; the request itself only fails when the pending set
// cannot be read.
func (h *MatchingHandler) Trigger(c *gin.Context) {
	report, err := h.matching.Trigger(c.Request.Context())
	if err != nil {
		writeInternal(c, err)
		return
	}
	if report.Considered == 0 {
		writeJSON(c, http.StatusOK, gin.H{"message": "no pending bookings to match", "matches_found": 0})
		return
	}

	details := make([]matchDetail, 0, len(report.Matched))
	for _, o := range report.Matched {
		details = append(details, matchDetail{RideID: o.RideID, VehicleID: o.VehicleID, Bookings: o.BookingIDs})
	}
	pending := make([]pendingDetail, 0, len(report.Pending))
	for _, o := range report.Pending {
		pending = append(pending, pendingDetail{Bookings: o.BookingIDs, Reason: o.Err.Error()})
	}
	writeJSON(c, http.StatusOK, gin.H{
		"message":       "matching completed",
		"matches_found": len(details),
		"details":       details,
		"pending":       pending,
	})
}
