package models

import (
	"time"

	"gorm.io/gorm"
)

type Category struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	NameAr      string  `gorm:"size:100;not null" json:"nameAr"`
	Description *string `gorm:"type:text" json:"description"`
	Icon        *string `gorm:"size:500" json:"icon"`
	Image       *string `gorm:"size:500" json:"image"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	assignID(&c.ID)
	return nil
}
