package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type AdminVenueHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAdminVenueHandler(db *gorm.DB, audit *audit.Dispatcher) *AdminVenueHandler {
	return &AdminVenueHandler{db: db, audit: audit}
}

// --------- Requests ---------

type CreateVenueRequest struct {
	Name        string   `json:"name" binding:"required,max=150"`
	NameAr      string   `json:"nameAr" binding:"max=150"`
	Description string   `json:"description"`
	Price       float64  `json:"price" binding:"min=0"`
	Capacity    int      `json:"capacity" binding:"min=0"`
	Location    string   `json:"location" binding:"max=255"`
	ProviderID  *string  `json:"providerId" binding:"omitempty,uuid"`
	IsActive    *bool    `json:"isActive"`
	ServiceIDs  []string `json:"serviceIds" binding:"dive,uuid"`

	WorkingHoursStart *string `json:"workingHoursStart" binding:"omitempty,hhmm"`
	WorkingHoursEnd   *string `json:"workingHoursEnd" binding:"omitempty,hhmm"`
}

type UpdateVenueRequest struct {
	Name        *string  `json:"name" binding:"omitempty,min=1,max=150"`
	NameAr      *string  `json:"nameAr" binding:"omitempty,max=150"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,min=0"`
	Capacity    *int     `json:"capacity" binding:"omitempty,min=0"`
	Location    *string  `json:"location" binding:"omitempty,max=255"`
	IsActive    *bool    `json:"isActive"`
}

type VenueServicesRequest struct {
	ServiceIDs []string `json:"serviceIds" binding:"required,dive,uuid"`
}

// --------- Handlers ---------

func (h *AdminVenueHandler) Create(c *gin.Context) {
	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}
	if err := checkWorkingHours(req.WorkingHoursStart, req.WorkingHoursEnd); err != nil {
		httperr.Respond(c, err)
		return
	}

	venue := models.Venue{
		Name:              strings.TrimSpace(req.Name),
		NameAr:            strings.TrimSpace(req.NameAr),
		Description:       req.Description,
		Price:             req.Price,
		Capacity:          req.Capacity,
		Location:          strings.TrimSpace(req.Location),
		ProviderID:        req.ProviderID,
		IsActive:          req.IsActive == nil || *req.IsActive,
		WorkingHoursStart: req.WorkingHoursStart,
		WorkingHoursEnd:   req.WorkingHoursEnd,
	}

	err := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("*").Omit("Services").Create(&venue).Error; err != nil {
			return err
		}
		return replaceVenueServices(c.Request.Context(), tx, venue.ID, req.ServiceIDs)
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "venue_created",
		Entity:   "venue",
		EntityID: audit.Ref(venue.ID),
		Metadata: map[string]any{"name": venue.Name},
	})

	httpresp.Created(c, "Venue created successfully", venue)
}

func (h *AdminVenueHandler) Update(c *gin.Context) {
	var req UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	venue, err := findVenue(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	updates := venueUpdates(req)
	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(venue).Updates(updates).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		h.audit.Dispatch(audit.Event{
			ActorID:  audit.Ref(actorFrom(c).ID),
			Action:   "venue_updated",
			Entity:   "venue",
			EntityID: audit.Ref(venue.ID),
			Metadata: updates,
		})
	}

	httpresp.OK(c, venue)
}

// ReplaceServices sets the bundled services offered with the venue.
func (h *AdminVenueHandler) ReplaceServices(c *gin.Context) {
	var req VenueServicesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	venue, err := findVenue(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	err = h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("venue_id = ?", venue.ID).Delete(&models.VenueService{}).Error; err != nil {
			return err
		}
		return replaceVenueServices(c.Request.Context(), tx, venue.ID, req.ServiceIDs)
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Preload("Services").
		First(venue, "id = ?", venue.ID).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "venue_services_updated",
		Entity:   "venue",
		EntityID: audit.Ref(venue.ID),
		Metadata: map[string]any{"serviceIds": req.ServiceIDs},
	})

	httpresp.OK(c, venue)
}

// --------- Helpers ---------

// venueUpdates maps the set fields of req to their columns.
func venueUpdates(req UpdateVenueRequest) map[string]any {
	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.NameAr != nil {
		updates["name_ar"] = strings.TrimSpace(*req.NameAr)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	return updates
}

func findVenue(ctx context.Context, db *gorm.DB, id string) (*models.Venue, error) {
	var venue models.Venue
	err := db.WithContext(ctx).Where("id = ?", id).First(&venue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("Venue")
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

// replaceVenueServices inserts join rows for ids, which must all be active
// services. Duplicates are ignored.
func replaceVenueServices(ctx context.Context, tx *gorm.DB, venueID string, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	var found int64
	if err := tx.WithContext(ctx).
		Model(&models.Service{}).
		Where("id IN ? AND is_active = ?", ids, true).
		Count(&found).Error; err != nil {
		return err
	}
	if int(found) != len(ids) {
		return httperr.Validation("invalid_service", "one or more services do not exist or are inactive")
	}

	rows := make([]models.VenueService, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, models.VenueService{VenueID: venueID, ServiceID: id})
	}
	return tx.WithContext(ctx).Create(&rows).Error
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
