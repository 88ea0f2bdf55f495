package payment

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// OfflineGateway accepts every charge without contacting a provider. It is
// used when no gateway credentials are configured.
type OfflineGateway struct{}

func NewOfflineGateway() *OfflineGateway {
	return &OfflineGateway{}
}

func (OfflineGateway) Charge(_ context.Context, req ChargeRequest) (*Charge, error) {
	if strings.TrimSpace(req.CardToken) == "" {
		return nil, ErrDeclined
	}
	return &Charge{
		TransactionID: "off_" + uuid.NewString(),
		Status:        "approved",
	}, nil
}

func (OfflineGateway) Refund(context.Context, string) error {
	return nil
}

var _ Gateway = OfflineGateway{}
