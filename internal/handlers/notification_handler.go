package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/httpresp"
	"github.com/BruksfildServices01/venue-booking/internal/middleware"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type notificationInbox interface {
	ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
}

type NotificationHandler struct {
	inbox notificationInbox
}

func NewNotificationHandler(inbox notificationInbox) *NotificationHandler {
	return &NotificationHandler{inbox: inbox}
}

func (h *NotificationHandler) List(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	unread := c.Query("unread") == "true"

	items, err := h.inbox.ListForUser(c.Request.Context(), c.GetString(middleware.ContextUserID), unread, limit)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if items == nil {
		items = []models.Notification{}
	}
	httpresp.OK(c, items)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	ok, err := h.inbox.MarkRead(c.Request.Context(), c.Param("id"), c.GetString(middleware.ContextUserID))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if !ok {
		httperr.Respond(c, httperr.NotFound("Notification"))
		return
	}
	httpresp.Message(c, "Notification marked as read")
}
