package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/BruksfildServices01/venue-booking/internal/cache"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/logger"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

// ======================================================
// ACTOR
// ======================================================

// Actor is the authenticated user performing an operation.
type Actor struct {
	ID   string
	Role string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

var (
	ErrForbidden    = httperr.Forbidden("you do not have access to this booking")
	ErrSlotConflict = httperr.Validation("slot_conflict", "time slot conflicts with existing booking")
	ErrInvalidCard  = httperr.Validation("invalid_card", "invalid credit card")
	ErrInvalidRange = httperr.Validation("invalid_time_range", "start time must be before end time (HH:MM)")
)

func authorize(b *models.Booking, actor Actor) error {
	if actor.IsAdmin() || b.CustomerID == actor.ID {
		return nil
	}
	return ErrForbidden
}

func loadBooking(ctx context.Context, repo domain.Repository, id string) (*models.Booking, error) {
	b, err := repo.GetBooking(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.NotFound("Booking")
	}
	return b, err
}

// ======================================================
// SLOT CACHE
// ======================================================

// SlotCache caches the venue slot grid. A nil cache disables caching.
type SlotCache interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, keys ...string) error
}

func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// invalidateSlots drops cached grids; failures only cost a stale read
// until the TTL expires.
func invalidateSlots(ctx context.Context, c SlotCache, venueID *string, days ...time.Time) {
	if c == nil || venueID == nil {
		return
	}
	keys := make([]string, 0, len(days))
	for _, d := range days {
		keys = append(keys, cache.VenueSlotsKey(*venueID, dayKey(d)))
	}
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Get().WithField("venue_id", *venueID).WithError(err).Warn("slot cache invalidation failed")
	}
}

// ======================================================
// SCHEDULE CHECKS
// ======================================================

func validateRange(start, end *string) error {
	if start == nil && end == nil {
		return nil
	}
	r := domain.RangeOf(start, end)
	if r.Start == "" && r.End == "" {
		return nil
	}
	if !r.Valid() {
		return ErrInvalidRange
	}
	return nil
}

func checkVenueHoliday(ctx context.Context, repo domain.Repository, venueID string, day time.Time) error {
	holidays, err := repo.ListVenueHolidays(ctx, venueID)
	if err != nil {
		return err
	}
	if h := domain.MatchVenueHoliday(holidays, day); h != nil {
		msg := "venue is not available on this date"
		if h.Reason != "" {
			msg += ": " + h.Reason
		}
		return httperr.Validation("venue_holiday", msg)
	}
	return nil
}

func checkVenueConflict(
	ctx context.Context,
	repo domain.Repository,
	venueID string,
	day time.Time,
	want domain.TimeRange,
	excludeID string,
) error {
	if !want.Bounded() {
		return nil
	}

	start, end := domain.DayBounds(day)
	existing, err := repo.ListVenueBookings(ctx, venueID, start, end, excludeID)
	if err != nil {
		return err
	}
	for _, b := range existing {
		if want.ConflictsWith(domain.RangeOf(b.StartTime, b.EndTime)) {
			return ErrSlotConflict
		}
	}
	return nil
}

func checkServiceDay(ctx context.Context, repo domain.Repository, item *models.BookingService, day time.Time) error {
	holidays, err := repo.ListServiceHolidays(ctx, item.ServiceID)
	if err != nil {
		return err
	}
	if domain.MatchServiceHoliday(holidays, day) != nil {
		return httperr.Validation(
			"service_holiday",
			fmt.Sprintf("service %s is not available on this date", item.ServiceName),
		)
	}

	want := domain.RangeOf(item.StartTime, item.EndTime)
	if !want.Bounded() {
		return nil
	}

	start, end := domain.DayBounds(day)
	slots, err := repo.ListServiceSlots(ctx, item.ServiceID, start, end)
	if err != nil {
		return err
	}
	for _, s := range slots {
		if want.Overlaps(s.Range()) {
			return httperr.Validation(
				"service_slot_conflict",
				fmt.Sprintf("service %s is already booked for this time slot", item.ServiceName),
			)
		}
	}
	return nil
}

func logEventFailure(action string, b *models.Booking, err error) {
	logger.Get().WithFields(logrus.Fields{
		"action":     action,
		"booking_id": b.ID,
	}).WithError(err).Error("booking side effect failed")
}
