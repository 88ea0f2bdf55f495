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

type AdminServiceHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewAdminServiceHandler(db *gorm.DB, audit *audit.Dispatcher) *AdminServiceHandler {
	return &AdminServiceHandler{db: db, audit: audit}
}

type CreateServiceRequest struct {
	Name        string  `json:"name" binding:"required,max=150"`
	NameAr      string  `json:"nameAr" binding:"max=150"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"min=0"`
	CategoryID  *string `json:"categoryId" binding:"omitempty,uuid"`
	ProviderID  *string `json:"providerId" binding:"omitempty,uuid"`
	ServiceType string  `json:"serviceType"`

	WorksInVenues *bool `json:"worksInVenues"`
	WorksExternal bool  `json:"worksExternal"`
	RequiresVenue bool  `json:"requiresVenue"`

	WorkingHoursStart *string `json:"workingHoursStart" binding:"omitempty,hhmm"`
	WorkingHoursEnd   *string `json:"workingHoursEnd" binding:"omitempty,hhmm"`
}

type UpdateServiceRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1,max=150"`
	NameAr        *string  `json:"nameAr" binding:"omitempty,max=150"`
	Description   *string  `json:"description"`
	Price         *float64 `json:"price" binding:"omitempty,min=0"`
	CategoryID    *string  `json:"categoryId" binding:"omitempty,uuid"`
	ServiceType   *string  `json:"serviceType"`
	WorksInVenues *bool    `json:"worksInVenues"`
	WorksExternal *bool    `json:"worksExternal"`
	RequiresVenue *bool    `json:"requiresVenue"`
	IsActive      *bool    `json:"isActive"`
}

// serviceType defaults to OTHER and must be one of the known types.
func serviceType(raw string) (string, bool) {
	t := strings.ToUpper(strings.TrimSpace(raw))
	if t == "" {
		return models.ServiceTypeOther, true
	}
	for _, known := range models.ServiceTypes {
		if t == known {
			return t, true
		}
	}
	return "", false
}

func (h *AdminServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	st, ok := serviceType(req.ServiceType)
	if !ok {
		httperr.BadRequest(c, "invalid_service_type", "invalid service type")
		return
	}
	if err := checkWorkingHours(req.WorkingHoursStart, req.WorkingHoursEnd); err != nil {
		httperr.Respond(c, err)
		return
	}

	svc := models.Service{
		Name:              strings.TrimSpace(req.Name),
		NameAr:            strings.TrimSpace(req.NameAr),
		Description:       req.Description,
		Price:             req.Price,
		CategoryID:        req.CategoryID,
		ProviderID:        req.ProviderID,
		ServiceType:       st,
		WorksInVenues:     req.WorksInVenues == nil || *req.WorksInVenues,
		WorksExternal:     req.WorksExternal,
		RequiresVenue:     req.RequiresVenue,
		WorkingHoursStart: req.WorkingHoursStart,
		WorkingHoursEnd:   req.WorkingHoursEnd,
		IsActive:          true,
	}
	// Select("*") keeps explicit false flags that would otherwise get the column default.
	if err := h.db.WithContext(c.Request.Context()).Select("*").Create(&svc).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "service_created",
		Entity:   "service",
		EntityID: audit.Ref(svc.ID),
		Metadata: map[string]any{"name": svc.Name, "serviceType": svc.ServiceType},
	})

	httpresp.Created(c, "Service created successfully", svc)
}

func (h *AdminServiceHandler) Update(c *gin.Context) {
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

	svc, err := findService(c.Request.Context(), h.db, c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(svc).Updates(updates).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		h.audit.Dispatch(audit.Event{
			ActorID:  audit.Ref(actorFrom(c).ID),
			Action:   "service_updated",
			Entity:   "service",
			EntityID: audit.Ref(svc.ID),
			Metadata: updates,
		})
	}

	httpresp.OK(c, svc)
}

var errInvalidServiceType = httperr.Validation("invalid_service_type", "invalid service type")

// serviceUpdates maps the set fields of req to their columns.
func serviceUpdates(req UpdateServiceRequest) (map[string]any, error) {
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
	if req.CategoryID != nil {
		updates["category_id"] = *req.CategoryID
	}
	if req.ServiceType != nil {
		st, ok := serviceType(*req.ServiceType)
		if !ok {
			return nil, errInvalidServiceType
		}
		updates["service_type"] = st
	}
	if req.WorksInVenues != nil {
		updates["works_in_venues"] = *req.WorksInVenues
	}
	if req.WorksExternal != nil {
		updates["works_external"] = *req.WorksExternal
	}
	if req.RequiresVenue != nil {
		updates["requires_venue"] = *req.RequiresVenue
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	return updates, nil
}

func findService(ctx context.Context, db *gorm.DB, id string) (*models.Service, error) {
	var svc models.Service
	err := db.WithContext(ctx).Where("id = ?", id).First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("Service")
	}
	if err != nil {
		return nil, err
	}
	return &svc, nil
}
