package models

import (
	"time"

	"gorm.io/gorm"
)

type CreditCard struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"userId"`

	HolderName  string `gorm:"size:100" json:"holderName"`
	Last4       string `gorm:"size:4" json:"last4"`
	Brand       string `gorm:"size:20" json:"brand"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`

	// Token returned by the payment gateway card vault.
	GatewayToken string `gorm:"size:255" json:"-"`

	IsDefault bool `gorm:"default:false" json:"isDefault"`
	IsActive  bool `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *CreditCard) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}
