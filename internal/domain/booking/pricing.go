package booking

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/venue-booking/internal/httperr"
)

// DepositRate is the share of the final amount payable up front.
const DepositRate = 0.30

var depositRate = decimal.NewFromFloat(DepositRate)

type AmountsInput struct {
	VenuePrice     *float64
	ServicePrices  []float64
	RequestedTotal *float64
	Discount       float64
}

type Amounts struct {
	TotalAmount     float64 `json:"totalAmount"`
	Discount        float64 `json:"discount"`
	FinalAmount     float64 `json:"finalAmount"`
	DepositAmount   float64 `json:"depositAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
}

// ComputeAmounts prices a booking. The caller supplied total only wins when
// it is a positive finite number.
func ComputeAmounts(in AmountsInput) (Amounts, error) {
	total := decimal.Zero
	if in.VenuePrice != nil {
		total = total.Add(decimal.NewFromFloat(*in.VenuePrice))
	}
	for _, p := range in.ServicePrices {
		total = total.Add(decimal.NewFromFloat(p))
	}

	if rt := in.RequestedTotal; rt != nil && !math.IsNaN(*rt) && !math.IsInf(*rt, 0) && *rt > 0 {
		total = decimal.NewFromFloat(*rt)
	}

	if math.IsNaN(in.Discount) || math.IsInf(in.Discount, 0) || in.Discount < 0 {
		return Amounts{}, httperr.Validation("invalid_discount", "discount must not be negative")
	}

	discount := decimal.NewFromFloat(in.Discount)
	if discount.GreaterThan(total) {
		return Amounts{}, httperr.Validation("discount_exceeds_total", "discount cannot exceed the total amount")
	}

	final := total.Sub(discount)
	deposit := final.Mul(depositRate).Round(2)
	remaining := final.Sub(deposit).Round(2)

	return Amounts{
		TotalAmount:     total.InexactFloat64(),
		Discount:        discount.InexactFloat64(),
		FinalAmount:     final.InexactFloat64(),
		DepositAmount:   deposit.InexactFloat64(),
		RemainingAmount: remaining.InexactFloat64(),
	}, nil
}

// KeepPaidDeposit rebalances repriced amounts around a deposit that was
// already collected: the deposit stays as paid and only the remainder moves.
func KeepPaidDeposit(a Amounts, paidDeposit float64) (Amounts, error) {
	final := decimal.NewFromFloat(a.FinalAmount)
	deposit := decimal.NewFromFloat(paidDeposit)
	if final.LessThan(deposit) {
		return Amounts{}, httperr.Validation(
			"final_below_paid_deposit",
			"final amount cannot be lower than the deposit already paid",
		)
	}

	a.DepositAmount = deposit.InexactFloat64()
	a.RemainingAmount = final.Sub(deposit).Round(2).InexactFloat64()
	return a, nil
}
