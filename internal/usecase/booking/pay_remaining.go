package booking

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	"github.com/BruksfildServices01/venue-booking/internal/payment"
)

type PayRemaining struct {
	repo    domain.Repository
	charger charger
	audit   *audit.Dispatcher
}

func NewPayRemaining(
	repo domain.Repository,
	gateway payment.Gateway,
	currency string,
	audit *audit.Dispatcher,
) *PayRemaining {
	return &PayRemaining{
		repo:    repo,
		charger: charger{gateway: gateway, currency: currency},
		audit:   audit,
	}
}

func (uc *PayRemaining) Execute(ctx context.Context, in PayInput) (*PaymentResult, error) {
	b, err := loadBooking(ctx, uc.repo, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, in.Actor); err != nil {
		return nil, err
	}
	if err := domain.CanPayRemaining(b); err != nil {
		return nil, err
	}

	p, charge, err := settle(ctx, uc.repo, uc.charger, in, b, models.PaymentKindRemaining, b.RemainingAmount)
	if err != nil {
		return nil, err
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.MarkRemainingPaid(ctx, b.ID)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.Validation("payment_state_changed", "booking payment state changed, please retry")
		}
		return tx.CreatePayment(ctx, p)
	})
	if err != nil {
		uc.charger.compensate(ctx, b, charge)
		return nil, err
	}

	domain.MarkRemainingPaid(b)
	b.Payments = append(b.Payments, *p)

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(in.Actor.ID),
		Action:   "remaining_paid",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"amount": p.Amount, "paymentId": p.ID},
	})

	var events domain.Events
	events.Add(domain.Event{
		Type:          domain.EventRemainingPaid,
		UserID:        b.CustomerID,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Title:         "Booking fully paid",
		Message:       fmt.Sprintf("Booking %s is fully paid. Thank you.", b.BookingNumber),
		Category:      "PAYMENT",
		Data:          map[string]any{"amount": p.Amount},
	})

	return &PaymentResult{Booking: b, Payment: p, Events: events}, nil
}
