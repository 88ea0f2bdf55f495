package notify

import (
	"context"
	"encoding/json"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

// Store keeps the in-app copy of every notification.
type Store interface {
	Save(ctx context.Context, n *models.Notification) error
}

type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Save(ctx context.Context, n *models.Notification) error {
	return s.db.WithContext(ctx).Create(n).Error
}

func (s *GormStore) ListForUser(ctx context.Context, userID string, unreadOnly bool, limit int) ([]models.Notification, error) {
	q := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var out []models.Notification
	err := q.Find(&out).Error
	return out, err
}

// MarkRead flags one notification of the user. It reports false when the
// notification does not exist or belongs to someone else.
func (s *GormStore) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected == 1, res.Error
}

// toNotification renders a booking event as an in-app notification.
func toNotification(ev domain.Event) *models.Notification {
	link := "/booking/" + ev.BookingID
	if l, ok := ev.Data["link"].(string); ok && l != "" {
		link = l
	}

	meta := map[string]any{
		"bookingId":     ev.BookingID,
		"bookingNumber": ev.BookingNumber,
	}
	for k, v := range ev.Data {
		meta[k] = v
	}

	var raw datatypes.JSON
	if b, err := json.Marshal(meta); err == nil {
		raw = b
	}

	return &models.Notification{
		UserID:   ev.UserID,
		Title:    ev.Title,
		Message:  ev.Message,
		Type:     string(ev.Type),
		Category: ev.Category,
		Link:     link,
		Metadata: raw,
	}
}
