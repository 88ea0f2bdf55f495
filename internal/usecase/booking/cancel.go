package booking

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/metrics"
)

type CancelInput struct {
	BookingID string
	Actor     Actor
}

// CancelBooking moves a booking to CANCELLED. Payments are left as they are;
// money goes back only through an explicit refund.
type CancelBooking struct {
	repo  domain.Repository
	cache SlotCache
	audit *audit.Dispatcher
}

func NewCancelBooking(repo domain.Repository, cache SlotCache, audit *audit.Dispatcher) *CancelBooking {
	return &CancelBooking{repo: repo, cache: cache, audit: audit}
}

func (uc *CancelBooking) Execute(ctx context.Context, in CancelInput) (*StatusResult, error) {
	b, err := loadBooking(ctx, uc.repo, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, in.Actor); err != nil {
		return nil, err
	}

	current := domain.Status(b.Status)
	if err := domain.CanCancel(current); err != nil {
		return nil, err
	}

	changed, err := uc.repo.UpdateStatus(ctx, b.ID, current, domain.StatusCancelled)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrStatusChanged
	}
	b.Status = string(domain.StatusCancelled)

	metrics.IncBookingCancelled()
	invalidateSlots(ctx, uc.cache, b.VenueID, b.Date)

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(in.Actor.ID),
		Action:   "booking_cancelled",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"from": current},
	})

	var events domain.Events
	events.Add(domain.Event{
		Type:          domain.EventBookingCancelled,
		UserID:        b.CustomerID,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Title:         "Booking cancelled",
		Message:       fmt.Sprintf("Booking %s has been cancelled.", b.BookingNumber),
		Category:      "BOOKING",
	})

	return &StatusResult{Booking: b, Events: events}, nil
}
