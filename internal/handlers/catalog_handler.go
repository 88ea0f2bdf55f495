package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

// CatalogHandler serves the public, read only venue and service listings.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

////////////////////////////////////////////////////////
// VENUES
////////////////////////////////////////////////////////

func (h *CatalogHandler) ListVenues(c *gin.Context) {
	page, limit := pageParams(c, 20, 100)
	search := strings.TrimSpace(strings.ToLower(c.Query("search")))

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Venue{}).
		Where("is_active = ?", true)

	if search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(location) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var venues []models.Venue
	if err := q.
		Order("rating DESC, created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&venues).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, venues, total, page, limit)
}

func (h *CatalogHandler) GetVenue(c *gin.Context) {
	var venue models.Venue
	err := h.db.WithContext(c.Request.Context()).
		Preload("Services", "is_active = ?", true).
		Where("id = ? AND is_active = ?", c.Param("id"), true).
		First(&venue).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, httperr.NotFound("Venue"))
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, venue)
}

////////////////////////////////////////////////////////
// SERVICES
////////////////////////////////////////////////////////

func (h *CatalogHandler) ListServices(c *gin.Context) {
	page, limit := pageParams(c, 20, 100)

	q := h.db.WithContext(c.Request.Context()).
		Model(&models.Service{}).
		Where("is_active = ?", true)

	if t := strings.ToUpper(strings.TrimSpace(c.Query("serviceType"))); t != "" {
		q = q.Where("service_type = ?", t)
	}
	if cat := strings.TrimSpace(c.Query("categoryId")); cat != "" {
		q = q.Where("category_id = ?", cat)
	}
	if search := strings.TrimSpace(strings.ToLower(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var services []models.Service
	if err := q.
		Order("name ASC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, services, total, page, limit)
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	var svc models.Service
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ? AND is_active = ?", c.Param("id"), true).
		First(&svc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, httperr.NotFound("Service"))
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, svc)
}
