package booking

import (
	"context"
	"errors"
	"fmt"

	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/metrics"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	"github.com/BruksfildServices01/venue-booking/internal/payment"
)

var ErrPaymentDeclined = httperr.Validation("payment_declined", "card payment was declined")

// resolveCard loads a card the user may charge. Placeholder ids mean no card.
func resolveCard(ctx context.Context, repo domain.Repository, userID string, raw *string) (*models.CreditCard, error) {
	id := domain.OptionalID(raw)
	if id == nil {
		return nil, nil
	}

	card, err := repo.GetCard(ctx, *id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, ErrInvalidCard
	}
	if err != nil {
		return nil, err
	}
	if card.UserID != userID || !card.IsActive {
		return nil, ErrInvalidCard
	}
	return card, nil
}

type charger struct {
	gateway  payment.Gateway
	currency string
}

func (c charger) charge(
	ctx context.Context,
	card *models.CreditCard,
	payerEmail string,
	b *models.Booking,
	kind string,
	amount float64,
) (*payment.Charge, error) {

	ch, err := c.gateway.Charge(ctx, payment.ChargeRequest{
		Amount:      amount,
		Currency:    c.currency,
		CardToken:   card.GatewayToken,
		CardBrand:   card.Brand,
		PayerEmail:  payerEmail,
		Description: fmt.Sprintf("%s payment for booking %s", kind, b.BookingNumber),
		Reference:   b.BookingNumber,
	})
	if err != nil {
		metrics.IncPayment(kind, domain.PaymentFailed)
		if errors.Is(err, payment.ErrDeclined) {
			return nil, ErrPaymentDeclined
		}
		return nil, err
	}

	metrics.IncPayment(kind, domain.PaymentPaid)
	return ch, nil
}

// compensate refunds a charge whose booking write did not commit.
func (c charger) compensate(ctx context.Context, b *models.Booking, ch *payment.Charge) {
	if ch == nil {
		return
	}
	if err := c.gateway.Refund(context.WithoutCancel(ctx), ch.TransactionID); err != nil {
		logEventFailure("compensating_refund", b, err)
		return
	}
	metrics.IncPayment(models.PaymentKindRefund, domain.PaymentRefunded)
}

func payerEmail(ctx context.Context, repo domain.Repository, userID string) (string, error) {
	u, err := repo.GetUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return "", httperr.NotFound("User")
	}
	if err != nil {
		return "", err
	}
	return u.Email, nil
}
