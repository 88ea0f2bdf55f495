package booking

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/venue-booking/internal/audit"
	domain "github.com/BruksfildServices01/venue-booking/internal/domain/booking"
	"github.com/BruksfildServices01/venue-booking/internal/models"
	"github.com/BruksfildServices01/venue-booking/internal/payment"
)

type PayInput struct {
	BookingID string
	Actor     Actor
	CardID    *string
}

type PaymentResult struct {
	Booking *models.Booking
	Payment *models.Payment
	Events  domain.Events
}

type PayDeposit struct {
	repo    domain.Repository
	charger charger
	audit   *audit.Dispatcher
}

func NewPayDeposit(
	repo domain.Repository,
	gateway payment.Gateway,
	currency string,
	audit *audit.Dispatcher,
) *PayDeposit {
	return &PayDeposit{
		repo:    repo,
		charger: charger{gateway: gateway, currency: currency},
		audit:   audit,
	}
}

func (uc *PayDeposit) Execute(ctx context.Context, in PayInput) (*PaymentResult, error) {
	b, err := loadBooking(ctx, uc.repo, in.BookingID)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, in.Actor); err != nil {
		return nil, err
	}
	if err := domain.CanPayDeposit(b); err != nil {
		return nil, err
	}

	p, charge, err := settle(ctx, uc.repo, uc.charger, in, b, models.PaymentKindDeposit, b.DepositAmount)
	if err != nil {
		return nil, err
	}

	var method *string
	if p.CardID != nil {
		method = &p.Method
	}

	err = uc.repo.Transaction(ctx, func(tx domain.Repository) error {
		ok, err := tx.MarkDepositPaid(ctx, b.ID, method)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrDepositAlreadyPaid
		}
		return tx.CreatePayment(ctx, p)
	})
	if err != nil {
		uc.charger.compensate(ctx, b, charge)
		return nil, err
	}

	domain.MarkDepositPaid(b)
	if method != nil {
		b.PaymentMethod = method
	}
	b.Payments = append(b.Payments, *p)

	uc.audit.Dispatch(audit.Event{
		ActorID:  audit.Ref(in.Actor.ID),
		Action:   "deposit_paid",
		Entity:   "booking",
		EntityID: &b.ID,
		Metadata: map[string]any{"amount": p.Amount, "paymentId": p.ID},
	})

	var events domain.Events
	events.Add(depositEvent(b))

	return &PaymentResult{Booking: b, Payment: p, Events: events}, nil
}

// settle charges the card when one is given and drafts the ledger row.
// Without a card the payment is recorded against the booking method.
func settle(
	ctx context.Context,
	repo domain.Repository,
	c charger,
	in PayInput,
	b *models.Booking,
	kind string,
	amount float64,
) (*models.Payment, *payment.Charge, error) {

	card, err := resolveCard(ctx, repo, in.Actor.ID, in.CardID)
	if err != nil {
		return nil, nil, err
	}

	p := &models.Payment{
		BookingID: b.ID,
		Amount:    amount,
		Status:    domain.PaymentPaid,
		Kind:      kind,
	}

	if card == nil {
		p.Method = domain.MethodCash
		if b.PaymentMethod != nil {
			p.Method = *b.PaymentMethod
		}
		return p, nil, nil
	}

	email, err := payerEmail(ctx, repo, in.Actor.ID)
	if err != nil {
		return nil, nil, err
	}
	ch, err := c.charge(ctx, card, email, b, kind, amount)
	if err != nil {
		return nil, nil, err
	}

	p.Method = domain.MethodCreditCard
	p.CardID = &card.ID
	p.TransactionID = ch.TransactionID
	return p, ch, nil
}

func depositEvent(b *models.Booking) domain.Event {
	return domain.Event{
		Type:          domain.EventDepositPaid,
		UserID:        b.CustomerID,
		BookingID:     b.ID,
		BookingNumber: b.BookingNumber,
		Title:         "Deposit received",
		Message:       fmt.Sprintf("We received the deposit of %.2f for booking %s.", b.DepositAmount, b.BookingNumber),
		Category:      "PAYMENT",
		Data:          map[string]any{"depositAmount": b.DepositAmount, "remainingAmount": b.RemainingAmount},
	}
}
