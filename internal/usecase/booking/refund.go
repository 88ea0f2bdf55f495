package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/metrics"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	"github.com/BruksfildServices01/venue-booking/internal/payment"
)

type RefundInput struct {
	BookingID string
	Actor     Actor
}

var ErrNoPaidPayment = httperr.Validation("no_paid_payment", "no paid payment found for this booking")

// RefundBooking returns the most recent paid payment and closes the booking.
type RefundBooking struct {
	repo    domain.Repository
	gateway payment.Gateway
	cache   SlotCache
	audit   *audit.Dispatcher
}

func NewRefundBooking(
	repo domain.Repository,
	gateway payment.Gateway,
	cache SlotCache,
	audit *audit.Dispatcher,
) *RefundBooking {
	return &RefundBooking{repo: repo, gateway: gateway, cache: cache, audit: audit}
}

func (uc *RefundBooking) Execute(ctx context.Context, in RefundInput) (*PaymentResult, error) {
	b, err := loadBooking(ctx, uc.repo, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, in.Actor); err != nil {
		return nil, err
	}

	paid, err := uc.repo.LatestPaidPayment(ctx, b.ID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrNoPaidPayment
	}
	if err != nil {
		return nil, err
	}

	// Claim the payment first so concurrent refunds cannot both reach the
	// gateway.
	claimed, err := uc.repo.UpdatePaymentStatus(ctx, paid.ID, domain.PaymentPaid, domain.PaymentRefunded)
	if err != nil {
		return nil, err
	}
	if !claimed {
		return nil, ErrNoPaidPayment
	}

	if paid.TransactionID != "" {
		if err := uc.gateway.Refund(ctx, paid.TransactionID); err != nil {
			metrics.IncPayment(models.PaymentKindRefund, domain.PaymentFailed)
			if _, rerr := uc.repo.UpdatePaymentStatus(ctx, paid.ID, domain.PaymentRefunded, domain.PaymentPaid); rerr != nil {
				logEventFailure("refund_release", b, rerr)
			}
			return nil, err
		}
	}
	metrics.IncPayment(models.PaymentKindRefund, domain.PaymentRefunded)

	ledger := &models.Payment{
		BookingID:     b.ID,
		Amount:        paid.Amount,
		Method:        paid.Method,
		Status:        domain.PaymentRefunded,
		Kind:          models.PaymentKindRefund,
		TransactionID: paid.TransactionID,
		CardID:        paid.CardID,
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		if err := tx.MarkRefunded(ctx, b.ID); err != nil {
			return err
		}
		return tx.CreatePayment(ctx, ledger)
	})
	if err != nil {
		// the gateway already returned the money; the row stays for manual repair
		logEventFailure("refund_ledger", b, err)
		return nil, err
	}

	wasOpen := !domain.Status(b.Status).Terminal()
	b.Status = string(domain.StatusCancelled)
	b.PaymentStatus = domain.PaymentRefunded
	b.Payments = append(b.Payments, *ledger)

	if wasOpen {
		metrics.IncBookingCancelled()
	}
	invalidateSlots(ctx, uc.cache, b.VenueID, b.Date)

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(in.Actor.ID),
		Action:   "booking_refunded",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"paymentId": paid.ID, "amount": paid.Amount},
	})

	var events domain.Events
	events.Add(domain.Event{
		Type:          domain.EventPaymentRefunded,
		UserID:        b.CustomerID,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Title:         "Payment refunded",
		Message:       fmt.Sprintf("We refunded %.2f for booking %s.", paid.Amount, b.BookingNumber),
		Category:      "PAYMENT",
		Data:          map[string]any{"amount": paid.Amount},
	})

	return &PaymentResult{Booking: b, Payment: ledger, Events: events}, nil
}
