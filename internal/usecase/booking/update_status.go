package booking

import (
	"context"
	"fmt"
	"strings"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/metrics"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type UpdateStatusInput struct {
	BookingID string
	Actor     Actor
	Status    string
}

type StatusResult struct {
	Booking *models.Booking
	Events  domain.Events
}

var ErrStatusChanged = httperr.Validation("status_changed", "booking status changed, please retry")

type UpdateBookingStatus struct {
	repo  domain.Repository
	cache SlotCache
	audit *audit.Dispatcher
}

func NewUpdateBookingStatus(repo domain.Repository, cache SlotCache, audit *audit.Dispatcher) *UpdateBookingStatus {
	return &UpdateBookingStatus{repo: repo, cache: cache, audit: audit}
}

func (uc *UpdateBookingStatus) Execute(ctx context.Context, in UpdateStatusInput) (*StatusResult, error) {
	next, ok := domain.ParseStatus(in.Status)
	if !ok {
		return nil, httperr.Validation("invalid_status", "invalid booking status")
	}

	b, err := loadBooking(ctx, uc.repo, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, in.Actor); err != nil {
		return nil, err
	}

	current := domain.Status(b.Status)
	if err := domain.CanTransition(current, next); err != nil {
		return nil, err
	}

	changed, err := uc.repo.UpdateStatus(ctx, b.ID, current, next)
	if err != nil {
		return nil, err
	}
	if !changed {
		return nil, ErrStatusChanged
	}
	b.Status = string(next)

	if next == domain.StatusCancelled {
		metrics.IncBookingCancelled()
		invalidateSlots(ctx, uc.cache, b.VenueID, b.Date)
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(in.Actor.ID),
		Action:   "booking_status_changed",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"from": current, "to": next},
	})

	var events domain.Events
	events.Add(domain.Event{
		Type:          domain.EventStatusChanged,
		UserID:        b.CustomerID,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Title:         "Booking status updated",
		Message: fmt.Sprintf(
			"Booking %s is now %s.",
			b.BookingNumber,
			strings.ToLower(strings.ReplaceAll(string(next), "_", " ")),
		),
		Category: "BOOKING",
		Data:     map[string]any{"status": next},
	})

	if next == domain.StatusConfirmed && domain.NeedsBalanceReminder(b) {
		events.Add(domain.Event{
			Type:          domain.EventBalanceDue,
			UserID:        b.CustomerID,
			BookingID:     b.ID,
			BookingNumber: b.BookingNumber,
			Title:         "Pay remaining balance",
			Message: fmt.Sprintf(
				"Booking %s is confirmed. Please pay the remaining balance of %.2f.",
				b.BookingNumber,
				b.RemainingAmount,
			),
			Category: "PAYMENT",
			Data: map[string]any{
				"remainingAmount": b.RemainingAmount,
				"link":            "/booking/" + b.ID,
			},
		})
	}

	return &StatusResult{Booking: b, Events: events}, nil
}
