package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type CategoryHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewCategoryHandler(db *gorm.DB, audit *audit.Dispatcher) *CategoryHandler {
	return &CategoryHandler{db: db, audit: audit}
}

type CategoryRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	NameAr      string  `json:"nameAr" binding:"required,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" binding:"omitempty,max=500"`
	Image       *string `json:"image" binding:"omitempty,max=500"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	NameAr      *string `json:"nameAr" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	Icon        *string `json:"icon" binding:"omitempty,max=500"`
	Image       *string `json:"image" binding:"omitempty,max=500"`
}

// CategoryDetail is a category with its best rated active services.
type CategoryDetail struct {
	models.Category
	Services []models.Service `json:"services"`
}

const categoryTopServices = 10

////////////////////////////////////////////////////////
// PUBLIC
////////////////////////////////////////////////////////

func (h *CategoryHandler) List(c *gin.Context) {
	var categories []models.Category
	if err := h.db.WithContext(c.Request.Context()).
		Order("name ASC").
		Find(&categories).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, categories)
}

func (h *CategoryHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := h.find(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	services := []models.Service{}
	if err := h.db.WithContext(ctx).
		Where("category_id = ? AND is_active = ?", category.ID, true).
		Order("rating DESC").
		Limit(categoryTopServices).
		Find(&services).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, CategoryDetail{Category: *category, Services: services})
}

////////////////////////////////////////////////////////
// ADMIN
////////////////////////////////////////////////////////

func (h *CategoryHandler) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	category := models.Category{
		Name:        strings.TrimSpace(req.Name),
		NameAr:      strings.TrimSpace(req.NameAr),
		Description: req.Description,
		Icon:        req.Icon,
		Image:       req.Image,
	}
	if err := h.db.WithContext(c.Request.Context()).Create(&category).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "category_created",
		Entity:   "category",
		EntityID: audit.Ref(category.ID),
		Metadata: map[string]any{"name": category.Name},
	})

	httpresp.Created(c, "Category created successfully", category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	category, err := h.find(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

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
	if req.Icon != nil {
		updates["icon"] = *req.Icon
	}
	if req.Image != nil {
		updates["image"] = *req.Image
	}

	if len(updates) > 0 {
		if err := h.db.WithContext(c.Request.Context()).Model(category).Updates(updates).Error; err != nil {
			httperr.Respond(c, err)
			return
		}
		h.audit.Dispatch(audit.Event{
			ActorID:  audit.Ref(actorFrom(c).ID),
			Action:   "category_updated",
			Entity:   "category",
			EntityID: audit.Ref(category.ID),
			Metadata: updates,
		})
	}

	httpresp.OK(c, category)
}

// Delete refuses while services still point at the category.
func (h *CategoryHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	category, err := h.find(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var inUse int64
	if err := h.db.WithContext(ctx).
		Model(&models.Service{}).
		Where("category_id = ?", category.ID).
		Count(&inUse).Error; err != nil {
		httperr.Respond(c, err)
		return
	}
	if inUse > 0 {
		httperr.Respond(c, httperr.Conflict("category_in_use", "category still has services"))
		return
	}

	if err := h.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", category.ID).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actorFrom(c).ID),
		Action:   "category_deleted",
		Entity:   "category",
		EntityID: audit.Ref(category.ID),
	})

	httpresp.Message(c, "Category deleted successfully")
}

func (h *CategoryHandler) find(c *gin.Context) (*models.Category, error) {
	var category models.Category
	err := h.db.WithContext(c.Request.Context()).
		Where("id = ?", c.Param("id")).
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.NotFound("Category")
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}
