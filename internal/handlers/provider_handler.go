package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	ucBooking "github.com/BruksfildServices01/venue-booking/internal/usecase/booking"
)

// ProviderHandler serves the catalog and bookings owned by the calling
// provider. A booking belongs to a provider through its venue or through
// any of its service lines.
type ProviderHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewProviderHandler(db *gorm.DB, audit *audit.Dispatcher) *ProviderHandler {
	return &ProviderHandler{db: db, audit: audit}
}

type ProviderStats struct {
	Venues            int64   `json:"venues"`
	Services          int64   `json:"services"`
	TotalBookings     int64   `json:"totalBookings"`
	PendingBookings   int64   `json:"pendingBookings"`
	ConfirmedBookings int64   `json:"confirmedBookings"`
	CompletedBookings int64   `json:"completedBookings"`
	TotalEarnings     float64 `json:"totalEarnings"`
}

type ProviderEarnings struct {
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	TotalEarnings float64    `json:"totalEarnings"`
	Payments      int64      `json:"payments"`
}

var errInvalidDateRange = httperr.Validation("invalid_date_range", "startDate must be before endDate")

// earningKinds are the ledger rows that bring money in. Refunds are
// recorded as their own rows and the refunded row changes status.
var earningKinds = []string{models.PaymentKindDeposit, models.PaymentKindRemaining, models.PaymentKindFull}

// ======================================================
// SCOPES
// ======================================================

func ownedBookings(providerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			"(bookings.venue_id IN (SELECT id FROM venues WHERE provider_id = ?) OR bookings.id IN ("+
				"SELECT bs.booking_id FROM booking_services bs "+
				"JOIN services s ON s.id = bs.service_id WHERE s.provider_id = ?))",
			providerID, providerID,
		)
	}
}

// earningsWindow turns the optional dates into [from, to). Both bounds are
// whole UTC days so endDate is inclusive.
func earningsWindow(start, end string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if start != "" {
		d, err := domain.ParseDate(start)
		if err != nil {
			return nil, nil, err
		}
		s, _ := domain.DayBounds(d)
		from = &s
	}
	if end != "" {
		d, err := domain.ParseDate(end)
		if err != nil {
			return nil, nil, err
		}
		_, e := domain.DayBounds(d)
		to = &e
	}
	if from != nil && to != nil && !from.Before(*to) {
		return nil, nil, errInvalidDateRange
	}
	return from, to, nil
}

// ======================================================
// HANDLERS
// ======================================================

func (h *ProviderHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()
	providerID := actorFrom(c).ID
	var stats ProviderStats

	if err := h.db.WithContext(ctx).Model(&models.Venue{}).
		Where("provider_id = ?", providerID).Count(&stats.Venues).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if err := h.db.WithContext(ctx).Model(&models.Service{}).
		Where("provider_id = ?", providerID).Count(&stats.Services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	counts := []struct {
		status string
		dst    *int64
	}{
		{"", &stats.TotalBookings},
		{string(domain.StatusPending), &stats.PendingBookings},
		{string(domain.StatusConfirmed), &stats.ConfirmedBookings},
		{string(domain.StatusCompleted), &stats.CompletedBookings},
	}
	for _, cnt := range counts {
		q := h.db.WithContext(ctx).Model(&models.Booking{}).Scopes(ownedBookings(providerID))
		if cnt.status != "" {
			q = q.Where("bookings.status = ?", cnt.status)
		}
		if err := q.Count(cnt.dst).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	earned, _, err := h.sumEarnings(c, providerID, nil, nil)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	stats.TotalEarnings = earned

	httpresp.OK(c, stats)
}

func (h *ProviderHandler) Venues(c *gin.Context) {
	venues := []models.Venue{}
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Services").
		Where("provider_id = ?", actorFrom(c).ID).
		Order("created_at DESC").
		Find(&venues).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, venues)
}

func (h *ProviderHandler) UpdateVenue(c *gin.Context) {
	var req UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	actor := actorFrom(c)
	venue, err := findVenue(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !owns(actor, venue.ProviderID) {
		httperr.Respond(c, httperr.Forbidden("you do not own this venue"))
		return
	}

	updates := venueUpdates(req)
	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(venue).Updates(updates).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		h.audit.Dispatch(audit.Event{
			ActorID:  audit.Ref(actor.ID),
			Action:   "venue_updated",
			Entity:   "venue",
			EntityID: audit.Ref(venue.ID),
			Metadata: updates,
		})
	}

	httpresp.OK(c, venue)
}

func (h *ProviderHandler) Services(c *gin.Context) {
	services := []models.Service{}
	if err := h.db.WithContext(c.Request.Context()).
		Where("provider_id = ?", actorFrom(c).ID).
		Order("created_at DESC").
		Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, services)
}

func (h *ProviderHandler) UpdateService(c *gin.Context) {
	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	updates, err := serviceUpdates(req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	actor := actorFrom(c)
	svc, err := findService(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !owns(actor, svc.ProviderID) {
		httperr.Respond(c, httperr.Forbidden("you do not own this service"))
		return
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(svc).Updates(updates).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		h.audit.Dispatch(audit.Event{
			ActorID:  audit.Ref(actor.ID),
			Action:   "service_updated",
			Entity:   "service",
			EntityID: audit.Ref(svc.ID),
			Metadata: updates,
		})
	}

	httpresp.OK(c, svc)
}

func (h *ProviderHandler) Bookings(c *gin.Context) {
	page, limit := pageParams(c, 20, 100)
	providerID := actorFrom(c).ID

	var status domain.Status
	if raw := c.Query("status"); raw != "" {
		s, ok := domain.StatusFilter(raw)
		if !ok {
			httperr.BadRequest(c, "invalid_status", "invalid status filter")
			return
		}
		status = s
	}

	scoped := func() *gorm.DB {
		q := h.db.WithContext(c.Request.Context()).
			Model(&models.Booking{}).
			Scopes(ownedBookings(providerID))
		if status != "" {
			q = q.Where("bookings.status = ?", string(status))
		}
		return q
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var bookings []models.Booking
	if err := scoped().
		Preload("Customer", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "email", "phone") }).
		Preload("Venue").
		Preload("Services").
		Order("bookings.date DESC, bookings.created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&bookings).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, bookings, total, page, limit)
}

func (h *ProviderHandler) Earnings(c *gin.Context) {
	from, to, err := earningsWindow(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	total, count, err := h.sumEarnings(c, actorFrom(c).ID, from, to)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out := ProviderEarnings{TotalEarnings: total, Payments: count, StartDate: from}
	if to != nil {
		last := to.AddDate(0, 0, -1)
		out.EndDate = &last
	}
	httpresp.OK(c, out)
}

// ======================================================
// HELPERS
// ======================================================

// sumEarnings adds up paid incoming ledger rows of the provider's bookings.
func (h *ProviderHandler) sumEarnings(c *gin.Context, providerID string, from, to *time.Time) (float64, int64, error) {
	var row struct {
		Total float64
		Count int64
	}

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Payment{}).
		Select("COALESCE(SUM(payments.amount), 0) AS total, COUNT(payments.id) AS count").
		Where("payments.status = ? AND payments.kind IN ?", domain.PaymentPaid, earningKinds).
		Where("payments.booking_id IN (?)",
			h.db.Model(&models.Booking{}).Select("bookings.id").Scopes(ownedBookings(providerID)))
	if from != nil {
		q = q.Where("payments.created_at >= ?", *from)
	}
	if to != nil {
		q = q.Where("payments.created_at < ?", *to)
	}

	if err := q.Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Total, row.Count, nil
}

// owns reports whether actor may manage a row owned by providerID.
func owns(actor ucBooking.Actor, providerID *string) bool {
	if actor.IsAdmin() {
		return true
	}
	return providerID != nil && *providerID == actor.ID
}
