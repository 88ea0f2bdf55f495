package booking

import (
	"github.com/BruksfildServices01/venue-booking/internal/httperr"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type PaymentState string

const (
	NoDeposit   PaymentState = "NO_DEPOSIT"
	DepositPaid PaymentState = "DEPOSIT_PAID"
	FullyPaid   PaymentState = "FULLY_PAID"
)

var (
	ErrDepositAlreadyPaid   = httperr.Validation("deposit_already_paid", "deposit is already paid")
	ErrNoDepositDue         = httperr.Validation("no_deposit_due", "no deposit amount to pay")
	ErrDepositNotPaid       = httperr.Validation("deposit_not_paid", "deposit must be paid before paying remaining amount")
	ErrRemainingAlreadyPaid = httperr.Validation("remaining_already_paid", "remaining amount is already paid")
	ErrNoRemainingDue       = httperr.Validation("no_remaining_due", "no remaining amount to pay")
)

func StateOf(b *models.Booking) PaymentState {
	switch {
	case b.DepositPaid && b.RemainingPaid:
		return FullyPaid
	case b.DepositPaid:
		return DepositPaid
	default:
		return NoDeposit
	}
}

func CanPayDeposit(b *models.Booking) error {
	if StateOf(b) != NoDeposit {
		return ErrDepositAlreadyPaid
	}
	if b.DepositAmount <= 0 {
		return ErrNoDepositDue
	}
	return nil
}

func CanPayRemaining(b *models.Booking) error {
	switch StateOf(b) {
	case NoDeposit:
		return ErrDepositNotPaid
	case FullyPaid:
		return ErrRemainingAlreadyPaid
	}
	if b.RemainingAmount <= 0 {
		return ErrNoRemainingDue
	}
	return nil
}

// MarkDepositPaid applies a successful deposit to the aggregate.
func MarkDepositPaid(b *models.Booking) {
	b.DepositPaid = true
}

// MarkRemainingPaid applies a successful balance payment. The booking counts
// as paid only once both parts are settled.
func MarkRemainingPaid(b *models.Booking) {
	b.RemainingPaid = true
	if b.DepositPaid {
		b.PaymentStatus = PaymentPaid
	}
}

// NeedsBalanceReminder reports a confirmed booking with an outstanding balance.
func NeedsBalanceReminder(b *models.Booking) bool {
	return b.DepositPaid && !b.RemainingPaid && b.RemainingAmount > 0
}
