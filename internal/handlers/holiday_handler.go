package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	"github.com/BruksfildServices01/venue-booking/internal/cache"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/logger"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/venue-booking/internal/usecase/booking"
)

// HolidayHandler manages closed days of venues and services.
type HolidayHandler struct {
	db    *gorm.DB
	cache ucBooking.SlotCache
	audit *audit.Dispatcher
}

func NewHolidayHandler(db *gorm.DB, slotCache ucBooking.SlotCache, audit *audit.Dispatcher) *HolidayHandler {
	return &HolidayHandler{db: db, cache: slotCache, audit: audit}
}

type HolidayRequest struct {
	Date        string `json:"date" binding:"required"`
	Reason      string `json:"reason" binding:"max=255"`
	IsRecurring bool   `json:"isRecurring"`
}

var errDuplicateHoliday = httperr.Conflict("holiday_exists", "a holiday already exists for this date")

func (r HolidayRequest) day() (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(r.Date), time.UTC)
	if err != nil {
		return time.Time{}, httperr.Validation("invalid_date", "date must be YYYY-MM-DD")
	}
	return d, nil
}

func bindHoliday(c *gin.Context) (HolidayRequest, time.Time, bool) {
	var req HolidayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return req, time.Time{}, false
	}
	day, err := req.day()
	if err != nil {
		httperr.Respond(c, err)
		return req, time.Time{}, false
	}
	return req, day, true
}

////////////////////////////////////////////////////////
// VENUE HOLIDAYS
////////////////////////////////////////////////////////

func (h *HolidayHandler) ListVenue(c *gin.Context) {
	venue, err := findVenue(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var holidays []models.VenueHoliday
	if err := h.db.WithContext(c.Request.Context()).
		Where("venue_id = ?", venue.ID).
		Order("date ASC").
		Find(&holidays).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, holidays)
}

func (h *HolidayHandler) CreateVenue(c *gin.Context) {
	req, day, ok := bindHoliday(c)
	if !ok {
		return
	}

	venue, err := findVenue(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	holiday := models.VenueHoliday{
		VenueID:     venue.ID,
		Date:        day,
		Reason:      strings.TrimSpace(req.Reason),
		IsRecurring: req.IsRecurring,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&holiday).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Respond(c, errDuplicateHoliday)
			return
		}
		httperr.Respond(c, err)
		return
	}

	h.dropSlots(c, venue.ID, day)
	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "venue_holiday_created",
		Entity:   "venue",
		EntityID: audit.Ref(venue.ID),
		Metadata: req,
	})

	httpresp.Created(c, "Holiday created successfully", holiday)
}

func (h *HolidayHandler) DeleteVenue(c *gin.Context) {
	var holiday models.VenueHoliday
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND venue_id = ?", c.Param("holidayId"), c.Param("id")).
		First(&holiday).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, httperr.NotFound("Holiday"))
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).Delete(&holiday).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.dropSlots(c, holiday.VenueID, holiday.Date)
	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "venue_holiday_deleted",
		Entity:   "venue",
		EntityID: audit.Ref(holiday.VenueID),
		Metadata: map[string]any{"holidayId": holiday.ID},
	})

	httpresp.Message(c, "Holiday deleted successfully")
}

// dropSlots invalidates the cached grid of the changed day. Other days of a
// recurring holiday expire with the cache TTL.
func (h *HolidayHandler) dropSlots(c *gin.Context, venueID string, day time.Time) {
	if h.cache == nil {
		return
	}
	key := cache.VenueSlotsKey(venueID, day.UTC().Format("2006-01-02"))
	if err := h.cache.Delete(c.Request.Context(), key); err != nil {
		logger.Get().WithField("key", key).WithError(err).Warn("slot cache invalidation failed")
	}
}

////////////////////////////////////////////////////////
// SERVICE HOLIDAYS
////////////////////////////////////////////////////////

func (h *HolidayHandler) findService(c *gin.Context) (*models.Service, bool) {
	var svc models.Service
	err := h.db.WithContext(c.Request.Context()).Where("id = ?", c.Param("id")).First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, httperr.NotFound("Service"))
		return nil, false
	}
	if err != nil {
		httperr.Respond(c, err)
		return nil, false
	}
	return &svc, true
}

func (h *HolidayHandler) ListService(c *gin.Context) {
	svc, ok := h.findService(c)
	if !ok {
		return
	}

	var holidays []models.ServiceHoliday
	if err := h.db.WithContext(c.Request.Context()).
		Where("service_id = ?", svc.ID).
		Order("date ASC").
		Find(&holidays).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, holidays)
}

func (h *HolidayHandler) CreateService(c *gin.Context) {
	req, day, ok := bindHoliday(c)
	if !ok {
		return
	}

	svc, ok := h.findService(c)
	if !ok {
		return
	}

	holiday := models.ServiceHoliday{
		ServiceID:   svc.ID,
		Date:        day,
		Reason:      strings.TrimSpace(req.Reason),
		IsRecurring: req.IsRecurring,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&holiday).Error; err != nil {
		if httperr.IsUniqueViolation(err) {
			httperr.Respond(c, errDuplicateHoliday)
			return
		}
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "service_holiday_created",
		Entity:   "service",
		EntityID: audit.Ref(svc.ID),
		Metadata: req,
	})

	httpresp.Created(c, "Holiday created successfully", holiday)
}

func (h *HolidayHandler) DeleteService(c *gin.Context) {
	res := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND service_id = ?", c.Param("holidayId"), c.Param("id")).
		Delete(&models.ServiceHoliday{})
	if res.Error != nil {
		httperr.Respond(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		httperr.Respond(c, httperr.NotFound("Holiday"))
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "service_holiday_deleted",
		Entity:   "service",
		EntityID: audit.Ref(c.Param("id")),
		Metadata: map[string]any{"holidayId": c.Param("holidayId")},
	})

	httpresp.Message(c, "Holiday deleted successfully")
}
