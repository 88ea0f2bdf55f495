package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	ucBooking "github.com/BruksfildServices01/venue-booking/internal/usecase/booking"
)

type venueSlotsReader interface {
	Execute(ctx context.Context, venueID, rawDate string) (*ucBooking.VenueSlots, error)
}

type serviceAvailabilityChecker interface {
	Execute(ctx context.Context, in ucBooking.ServiceAvailabilityInput) (*ucBooking.ServiceAvailability, error)
}

type AvailabilityHandler struct {
	slots    venueSlotsReader
	services serviceAvailabilityChecker
}

func NewAvailabilityHandler(slots venueSlotsReader, services serviceAvailabilityChecker) *AvailabilityHandler {
	return &AvailabilityHandler{slots: slots, services: services}
}

func (h *AvailabilityHandler) VenueSlots(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		httperr.BadRequest(c, "date_required", "date query parameter is required")
		return
	}

	res, err := h.slots.Execute(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}

func (h *AvailabilityHandler) ServiceAvailability(c *gin.Context) {
	date := strings.TrimSpace(c.Query("date"))
	if date == "" {
		httperr.BadRequest(c, "date_required", "date query parameter is required")
		return
	}

	res, err := h.services.Execute(c.Request.Context(), ucBooking.ServiceAvailabilityInput{
		ServiceID: c.Param("id"),
		Date:      date,
		StartTime: optionalQuery(c, "startTime"),
		EndTime:   optionalQuery(c, "endTime"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, res)
}

func optionalQuery(c *gin.Context, key string) *string {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	return &v
}
