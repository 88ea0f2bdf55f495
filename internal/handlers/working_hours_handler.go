package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
)

// WorkingHoursHandler edits the daily opening hours of a venue. Cached slot
// grids pick the change up when their TTL expires.
type WorkingHoursHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewWorkingHoursHandler(db *gorm.DB, audit *audit.Dispatcher) *WorkingHoursHandler {
	return &WorkingHoursHandler{db: db, audit: audit}
}

type WorkingHoursUpdateRequest struct {
	WorkingHoursStart string `json:"workingHoursStart" binding:"required,hhmm"`
	WorkingHoursEnd   string `json:"workingHoursEnd" binding:"required,hhmm"`
}

var ErrInvalidWorkingHours = httperr.Validation(
	"invalid_working_hours",
	"working hours must be HH:MM and start must be before end",
)

// checkWorkingHours accepts both bounds or neither.
func checkWorkingHours(start, end *string) error {
	if start == nil && end == nil {
		return nil
	}
	if start == nil || end == nil {
		return ErrInvalidWorkingHours
	}
	if !domain.RangeOf(start, end).Valid() {
		return ErrInvalidWorkingHours
	}
	return nil
}

func (h *WorkingHoursHandler) Update(c *gin.Context) {
	var req WorkingHoursUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, ErrInvalidWorkingHours)
		return
	}
	if err := checkWorkingHours(&req.WorkingHoursStart, &req.WorkingHoursEnd); err != nil {
		httperr.Respond(c, err)
		return
	}

	venue, err := findVenue(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(venue).
		Updates(map[string]any{
			"working_hours_start": req.WorkingHoursStart,
			"working_hours_end":   req.WorkingHoursEnd,
		}).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "venue_working_hours_updated",
		Entity:   "venue",
		EntityID: audit.Ref(venue.ID),
		Metadata: req,
	})

	httpresp.OK(c, gin.H{
		"id":                venue.ID,
		"workingHoursStart": req.WorkingHoursStart,
		"workingHoursEnd":   req.WorkingHoursEnd,
	})
}
