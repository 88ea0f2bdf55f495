package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	PaymentKindDeposit   = "DEPOSIT"
	PaymentKindRemaining = "REMAINING"
	PaymentKindFull      = "FULL"
	PaymentKindRefund    = "REFUND"
)

// Payment is an append-mostly ledger row. Only Status changes after insert.
type Payment struct {
	ID        string `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID string `gorm:"type:uuid;index;not null" json:"bookingId"`

	Amount        float64 `json:"amount"`
	Method        string  `gorm:"size:20" json:"method"`
	Status        string  `gorm:"size:20;index" json:"status"`
	Kind          string  `gorm:"size:20" json:"kind"`
	TransactionID string  `gorm:"size:100" json:"transactionId"`
	CardID        *string `gorm:"type:uuid" json:"cardId"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (p *Payment) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	return nil
}
