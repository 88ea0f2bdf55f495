package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"
	"github.com/mercadopago/sdk-go/pkg/refund"
)

type MercadoPagoGateway struct {
	payments mppayment.Client
	refunds  refund.Client
}

func NewMercadoPagoGateway(accessToken string) (*MercadoPagoGateway, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPagoGateway{
		payments: mppayment.NewClient(cfg),
		refunds:  refund.NewClient(cfg),
	}, nil
}

func (g *MercadoPagoGateway) Charge(ctx context.Context, req ChargeRequest) (*Charge, error) {
	res, err := g.payments.Create(ctx, mppayment.Request{
		TransactionAmount: req.Amount,
		Token:             req.CardToken,
		Installments:      1,
		PaymentMethodID:   strings.ToLower(req.CardBrand),
		Description:       req.Description,
		ExternalReference: req.Reference,
		Payer: &mppayment.PayerRequest{
			Email: req.PayerEmail,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago charge: %w", err)
	}

	if !approved(res.Status) {
		return nil, fmt.Errorf("%w: %s", ErrDeclined, res.StatusDetail)
	}

	return &Charge{
		TransactionID: strconv.Itoa(res.ID),
		Status:        res.Status,
	}, nil
}

func (g *MercadoPagoGateway) Refund(ctx context.Context, transactionID string) error {
	id, err := strconv.Atoi(transactionID)
	if err != nil {
		return fmt.Errorf("mercadopago refund: bad transaction id %q", transactionID)
	}

	if _, err := g.refunds.Create(ctx, id); err != nil {
		return fmt.Errorf("mercadopago refund: %w", err)
	}
	return nil
}

// approved treats authorized and in process charges as accepted; the
// gateway settles them asynchronously.
func approved(status string) bool {
	switch status {
	case "approved", "authorized", "in_process":
		return true
	}
	return false
}

var _ Gateway = (*MercadoPagoGateway)(nil)
