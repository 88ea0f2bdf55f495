package dto

import (
	"time"

	"github.com/BruksfildServices01/venue-booking/internal/models"
)

type BookingListDTO struct {
	ID            string    `json:"id"`
	BookingNumber string    `json:"bookingNumber"`
	BookingType   string    `json:"bookingType"`
	Date          time.Time `json:"date"`
	StartTime     *string   `json:"startTime"`
	EndTime       *string   `json:"endTime"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus"`

	VenueName    string   `json:"venueName,omitempty"`
	ServiceNames []string `json:"serviceNames"`

	FinalAmount     float64 `json:"finalAmount"`
	DepositAmount   float64 `json:"depositAmount"`
	RemainingAmount float64 `json:"remainingAmount"`
	DepositPaid     bool    `json:"depositPaid"`
	RemainingPaid   bool    `json:"remainingPaid"`
}

func BookingList(items []models.Booking) []BookingListDTO {
	out := make([]BookingListDTO, 0, len(items))
	for i := range items {
		b := &items[i]
		row := BookingListDTO{
			ID:              b.ID,
			BookingNumber:   b.BookingNumber,
			BookingType:     b.BookingType,
			Date:            b.Date,
			StartTime:       b.StartTime,
			EndTime:         b.EndTime,
			Status:          b.Status,
			PaymentStatus:   b.PaymentStatus,
			ServiceNames:    make([]string, 0, len(b.Services)),
			FinalAmount:     b.FinalAmount,
			DepositAmount:   b.DepositAmount,
			RemainingAmount: b.RemainingAmount,
			DepositPaid:     b.DepositPaid,
			RemainingPaid:   b.RemainingPaid,
		}
		if b.Venue != nil {
			row.VenueName = b.Venue.Name
		}
		for _, s := range b.Services {
			row.ServiceNames = append(row.ServiceNames, s.ServiceName)
		}
		out = append(out, row)
	}
	return out
}
