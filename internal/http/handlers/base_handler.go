// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridepool/internal/modules/booking"
	"ridepool/internal/modules/fleet"
	"ridepool/internal/modules/location"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts the UUID strings produced by types.NewID and short seed IDs.
func isValidID(v string) bool {
	if v == "" || len(v) > 64 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeInternal(c *gin.Context, err error) {
	_ = c.Error(err)
	writeError(c, http.StatusInternalServerError, "internal error")
}

func writeBookingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, booking.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, booking.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeInternal(c, err)
	}
}

func writeFleetError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, fleet.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, fleet.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, fleet.ErrNotClaimed):
		writeError(c, http.StatusConflict, err.Error())
	default:
		writeInternal(c, err)
	}
}

func writeLocationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, location.ErrBadRequest):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, location.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	default:
		writeInternal(c, err)
	}
}
