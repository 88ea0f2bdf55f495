package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type ReviewHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewReviewHandler(db *gorm.DB, audit *audit.Dispatcher) *ReviewHandler {
	return &ReviewHandler{db: db, audit: audit}
}

type CreateReviewRequest struct {
	VenueID   *string `json:"venueId"`
	ServiceID *string `json:"serviceId"`
	Rating    int     `json:"rating" binding:"required,min=1,max=5"`
	Comment   *string `json:"comment" binding:"omitempty,max=2000"`
}

var (
	errReviewTarget    = httperr.Validation("review_target_required", "either venueId or serviceId is required")
	errReviewTwoTarget = httperr.Validation("review_target_ambiguous", "a review rates a venue or a service, not both")
)

// reviewFromRequest checks the target and builds the row for userID.
func reviewFromRequest(userID string, req CreateReviewRequest) (models.Review, error) {
	venueID := domain.OptionalID(req.VenueID)
	serviceID := domain.OptionalID(req.ServiceID)

	switch {
	case venueID == nil && serviceID == nil:
		return models.Review{}, errReviewTarget
	case venueID != nil && serviceID != nil:
		return models.Review{}, errReviewTwoTarget
	}

	review := models.Review{
		UserID:    userID,
		VenueID:   venueID,
		ServiceID: serviceID,
		Rating:    req.Rating,
	}
	if req.Comment != nil {
		if text := strings.TrimSpace(*req.Comment); text != "" {
			review.Comment = &text
		}
	}
	return review, nil
}

// summarizeRatings returns the average rounded to two places and the count.
func summarizeRatings(ratings []int) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	sum := decimal.Zero
	for _, r := range ratings {
		sum = sum.Add(decimal.NewFromInt(int64(r)))
	}
	avg := sum.Div(decimal.NewFromInt(int64(len(ratings)))).Round(2)
	return avg.InexactFloat64(), len(ratings)
}

// reviewTarget names the rated row of a review.
type reviewTarget struct {
	model    any
	resource string
	column   string
	id       string
}

func targetOf(r *models.Review) reviewTarget {
	if r.VenueID != nil {
		return reviewTarget{model: &models.Venue{}, resource: "Venue", column: "venue_id", id: *r.VenueID}
	}
	return reviewTarget{model: &models.Service{}, resource: "Service", column: "service_id", id: *r.ServiceID}
}

// lock takes the target row so concurrent reviews recompute in turn.
func (t reviewTarget) lock(ctx context.Context, tx *gorm.DB) error {
	var id string
	err := tx.WithContext(ctx).
		Model(t.model).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		Where("id = ?", t.id).
		Take(&id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFound(t.resource)
	}
	return err
}

func (t reviewTarget) recompute(ctx context.Context, tx *gorm.DB) error {
	var ratings []int
	if err := tx.WithContext(ctx).
		Model(&models.Review{}).
		Where(t.column+" = ?", t.id).
		Pluck("rating", &ratings).Error; err != nil {
		return err
	}

	avg, count := summarizeRatings(ratings)
	return tx.WithContext(ctx).
		Model(t.model).
		Where("id = ?", t.id).
		Updates(map[string]any{"rating": avg, "review_count": count}).Error
}

func (h *ReviewHandler) List(c *gin.Context) {
	page, limit := pageParams(c, 10, 100)

	q := h.db.WithContext(c.Request.Context()).Model(&models.Review{})
	if v := c.Query("venueId"); v != "" {
		q = q.Where("venue_id = ?", v)
	}
	if v := c.Query("serviceId"); v != "" {
		q = q.Where("service_id = ?", v)
	}
	if v := c.Query("userId"); v != "" {
		q = q.Where("user_id = ?", v)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	var reviews []models.Review
	if err := q.
		Preload("User", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name") }).
		Preload("Venue", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "name_ar") }).
		Preload("Service", func(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "name_ar") }).
		Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&reviews).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Page(c, reviews, total, page, limit)
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	actor := actorFrom(c)
	review, err := reviewFromRequest(actor.ID, req)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ctx := c.Request.Context()
	target := targetOf(&review)
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := target.lock(ctx, tx); err != nil {
			return err
		}
		if err := tx.Create(&review).Error; err != nil {
			return err
		}
		return target.recompute(ctx, tx)
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actor.ID),
		Action:   "review_created",
		Entity:   "review",
		EntityID: audit.Ref(review.ID),
		Metadata: map[string]any{"rating": review.Rating, target.column: target.id},
	})

	httpresp.Created(c, "Review created successfully", review)
}

func (h *ReviewHandler) Delete(c *gin.Context) {
	ctx := c.Request.Context()
	actor := actorFrom(c)

	var review models.Review
	err := h.db.WithContext(ctx).Where("id = ?", c.Param("id")).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		httperr.Respond(c, httperr.NotFound("Review"))
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !actor.IsAdmin() && review.UserID != actor.ID {
		httperr.Respond(c, httperr.Forbidden("you do not have access to this review"))
		return
	}

	target := targetOf(&review)
	err = h.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := target.lock(ctx, tx); err != nil && !httperr.IsKind(err, httperr.KindNotFound) {
			return err
		}
		if err := tx.Delete(&models.Review{}, "id = ?", review.ID).Error; err != nil {
			return err
		}
		return target.recompute(ctx, tx)
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(actor.ID),
		Action:   "review_deleted",
		Entity:   "review",
		EntityID: audit.Ref(review.ID),
	})

	httpresp.Message(c, "Review deleted successfully")
}
