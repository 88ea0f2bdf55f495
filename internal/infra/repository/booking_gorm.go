package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNotFound
	}
	return err
}

// --------------------------------------------------
// Transaction
// --------------------------------------------------

func (r *BookingGormRepository) Transaction(
	ctx context.Context,
	fn func(repo domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&BookingGormRepository{db: tx})
	})
}

// --------------------------------------------------
// Venue
// --------------------------------------------------

func (r *BookingGormRepository) GetVenue(
	ctx context.Context,
	id string,
) (*models.Venue, error) {

	var venue models.Venue
	if err := r.db.WithContext(ctx).
		Preload("Services").
		First(&venue, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &venue, nil
}

func (r *BookingGormRepository) LockVenue(
	ctx context.Context,
	id string,
) error {

	var venue models.Venue
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&venue, "id = ?", id).Error
	return notFound(err)
}

func (r *BookingGormRepository) IncrementVenueClients(
	ctx context.Context,
	id string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Venue{}).
		Where("id = ?", id).
		UpdateColumn("clients", gorm.Expr("clients + 1")).Error
}

func (r *BookingGormRepository) ListVenueHolidays(
	ctx context.Context,
	venueID string,
) ([]models.VenueHoliday, error) {

	var holidays []models.VenueHoliday
	if err := r.db.WithContext(ctx).
		Where("venue_id = ?", venueID).
		Order("date ASC").
		Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *BookingGormRepository) ListVenueBookings(
	ctx context.Context,
	venueID string,
	dayStart time.Time,
	dayEnd time.Time,
	excludeID string,
) ([]models.Booking, error) {

	q := r.db.WithContext(ctx).
		Select("id", "start_time", "end_time", "status").
		Where(
			"venue_id = ? AND status <> ? AND date >= ? AND date < ?",
			venueID, string(domain.StatusCancelled), dayStart, dayEnd,
		)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}

	var bookings []models.Booking
	if err := q.Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	id string,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).First(&service, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &service, nil
}

func (r *BookingGormRepository) ListServiceHolidays(
	ctx context.Context,
	serviceID string,
) ([]models.ServiceHoliday, error) {

	var holidays []models.ServiceHoliday
	if err := r.db.WithContext(ctx).
		Where("service_id = ?", serviceID).
		Order("date ASC").
		Find(&holidays).Error; err != nil {
		return nil, err
	}
	return holidays, nil
}

func (r *BookingGormRepository) ListServiceSlots(
	ctx context.Context,
	serviceID string,
	dayStart time.Time,
	dayEnd time.Time,
) ([]domain.ServiceSlot, error) {

	var slots []domain.ServiceSlot
	err := r.db.WithContext(ctx).
		Table("booking_services AS bs").
		Select(`bs.booking_id AS booking_id,
			bs.start_time AS start,
			bs.end_time AS "end",
			b.start_time AS booking_start,
			b.end_time AS booking_end`).
		Joins("JOIN bookings b ON b.id = bs.booking_id").
		Where("bs.service_id = ? AND b.status <> ?", serviceID, string(domain.StatusCancelled)).
		Where("COALESCE(bs.date, b.date) >= ? AND COALESCE(bs.date, b.date) < ?", dayStart, dayEnd).
		Scan(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// --------------------------------------------------
// User / Card
// --------------------------------------------------

func (r *BookingGormRepository) GetUser(
	ctx context.Context,
	id string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

func (r *BookingGormRepository) GetCard(
	ctx context.Context,
	id string,
) (*models.CreditCard, error) {

	var card models.CreditCard
	if err := r.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &card, nil
}

// --------------------------------------------------
// Booking
// --------------------------------------------------

func (r *BookingGormRepository) CreateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).
		Omit("Customer", "Venue", "Payments").
		Create(b).Error
}

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	id string,
) (*models.Booking, error) {

	var b models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Services").
		Preload("Services.Service").
		Preload("Venue").
		First(&b, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).Model(&models.Booking{})
	if f.CustomerID != "" {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	if err := q.
		Preload("Venue").
		Preload("Services").
		Preload("Services.Service").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *BookingGormRepository) SaveSchedule(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{ID: b.ID}).
		Select(
			"date", "start_time", "end_time",
			"total_amount", "discount", "final_amount",
			"deposit_amount", "remaining_amount", "notes",
		).
		Updates(b).Error
}

// --------------------------------------------------
// Payment state (CAS)
// --------------------------------------------------

func (r *BookingGormRepository) MarkDepositPaid(
	ctx context.Context,
	bookingID string,
	method *string,
) (bool, error) {

	updates := map[string]any{"deposit_paid": true}
	if method != nil {
		updates["payment_method"] = *method
	}

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND deposit_paid = ?", bookingID, false).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}

func (r *BookingGormRepository) MarkRemainingPaid(
	ctx context.Context,
	bookingID string,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND deposit_paid = ? AND remaining_paid = ?", bookingID, true, false).
		Updates(map[string]any{
			"remaining_paid": true,
			"payment_status": domain.PaymentPaid,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *BookingGormRepository) UpdateStatus(
	ctx context.Context,
	bookingID string,
	from domain.Status,
	to domain.Status,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", bookingID, string(from)).
		Update("status", string(to))
	return res.RowsAffected == 1, res.Error
}

func (r *BookingGormRepository) MarkRefunded(
	ctx context.Context,
	bookingID string,
) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Updates(map[string]any{
			"payment_status": domain.PaymentRefunded,
			"status":         string(domain.StatusCancelled),
		}).Error
}

// --------------------------------------------------
// Payment ledger
// --------------------------------------------------

func (r *BookingGormRepository) CreatePayment(
	ctx context.Context,
	p *models.Payment,
) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *BookingGormRepository) LatestPaidPayment(
	ctx context.Context,
	bookingID string,
) (*models.Payment, error) {

	var p models.Payment
	if err := r.db.WithContext(ctx).
		Where("booking_id = ? AND status = ?", bookingID, domain.PaymentPaid).
		Order("created_at DESC").
		First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *BookingGormRepository) UpdatePaymentStatus(
	ctx context.Context,
	paymentID, from, to string,
) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ? AND status = ?", paymentID, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
