package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

// UpdateBookingInput carries an admin reschedule. Nil fields stay unchanged.
type UpdateBookingInput struct {
	BookingID string
	Actor     Actor

	Date      *string
	StartTime *string
	EndTime   *string

	TotalAmount *float64
	Discount    *float64
	Notes       *string
}

type UpdateBookingResult struct {
	Booking *models.Booking
	Events  domain.Events
}

type UpdateBooking struct {
	repo  domain.Repository
	cache SlotCache
	audit *audit.Dispatcher
}

func NewUpdateBooking(repo domain.Repository, cache SlotCache, audit *audit.Dispatcher) *UpdateBooking {
	return &UpdateBooking{repo: repo, cache: cache, audit: audit}
}

func (uc *UpdateBooking) Execute(ctx context.Context, in UpdateBookingInput) (*UpdateBookingResult, error) {
	b, err := loadBooking(ctx, uc.repo, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, in.Actor); err != nil {
		return nil, err
	}
	if domain.Status(b.Status).Terminal() {
		return nil, httperr.Validation("booking_closed", "booking can no longer be modified")
	}

	previousDate := b.Date

	// --------------------------------------------------
	// Schedule
	// --------------------------------------------------
	if in.Date != nil {
		d, err := domain.ParseDate(*in.Date)
		if err != nil {
			return nil, err
		}
		b.Date = d
	}
	if in.StartTime != nil {
		b.StartTime = firstNonEmpty(in.StartTime)
	}
	if in.EndTime != nil {
		b.EndTime = firstNonEmpty(in.EndTime)
	}
	if err := validateRange(b.StartTime, b.EndTime); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Amounts
	// --------------------------------------------------
	if in.TotalAmount != nil || in.Discount != nil {
		if b.RemainingPaid {
			return nil, httperr.Validation("booking_fully_paid", "amounts of a fully paid booking cannot change")
		}
		total := b.TotalAmount
		if in.TotalAmount != nil {
			total = *in.TotalAmount
		}
		discount := b.Discount
		if in.Discount != nil {
			discount = *in.Discount
		}

		amounts, err := domain.ComputeAmounts(domain.AmountsInput{
			RequestedTotal: &total,
			Discount:       discount,
		})
		if err != nil {
			return nil, err
		}
		if b.DepositPaid {
			if amounts, err = domain.KeepPaidDeposit(amounts, b.DepositAmount); err != nil {
				return nil, err
			}
		}
		applyAmounts(b, amounts)
	}

	if in.Notes != nil {
		b.Notes = in.Notes
	}

	scheduleChanged := in.Date != nil || in.StartTime != nil || in.EndTime != nil
	reschedule := b.VenueID != nil && scheduleChanged && domain.RangeOf(b.StartTime, b.EndTime).Bounded()

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if reschedule {
			if err := tx.LockVenue(ctx, *b.VenueID); err != nil {
				return err
			}
			want := domain.RangeOf(b.StartTime, b.EndTime)
			if err := checkVenueConflict(ctx, tx, *b.VenueID, b.Date, want, b.ID); err != nil {
				return err
			}
		}
		return tx.SaveSchedule(ctx, b)
	})
	if err != nil {
		if httperr.IsExclusionConflict(err) {
			return nil, ErrSlotConflict
		}
		return nil, err
	}

	invalidateSlots(ctx, uc.cache, b.VenueID, previousDate, b.Date)

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(in.Actor.ID),
		Action:   "booking_updated",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{
			"date":        dayKey(b.Date),
			"startTime":   b.StartTime,
			"endTime":     b.EndTime,
			"finalAmount": b.FinalAmount,
		},
	})

	var events domain.Events
	events.Add(domain.Event{
		Type:          domain.EventBookingUpdated,
		UserID:        b.CustomerID,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Title:         "Booking updated",
		Message:       fmt.Sprintf("Your booking %s now takes place on %s.", b.BookingNumber, scheduleLabel(b)),
		Category:      "BOOKING",
	})

	return &UpdateBookingResult{Booking: b, Events: events}, nil
}

func scheduleLabel(b *models.Booking) string {
	label := b.Date.UTC().Format(time.DateOnly)
	if r := domain.RangeOf(b.StartTime, b.EndTime); r.Bounded() {
		label += " " + r.Start + "-" + r.End
	}
	return label
}
