package payment

import (
	"context"
	"errors"
)

var ErrDeclined = errors.New("payment declined")

type ChargeRequest struct {
	Amount      float64
	Currency    string
	CardToken   string
	CardBrand   string
	PayerEmail  string
	Description string
	Reference   string
}

type Charge struct {
	TransactionID string
	Status        string
}

// Gateway moves money for booking payments.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (*Charge, error)
	Refund(ctx context.Context, transactionID string) error
}
