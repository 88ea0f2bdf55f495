package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Notification struct {
	ID     string `gorm:"type:uuid;primaryKey" json:"id"`
	UserID string `gorm:"type:uuid;index;not null" json:"userId"`

	Title    string         `gorm:"size:150;not null" json:"title"`
	Message  string         `gorm:"type:text" json:"message"`
	Type     string         `gorm:"size:30" json:"type"`
	Category string         `gorm:"size:30" json:"category"`
	Link     string         `gorm:"size:255" json:"link"`
	Metadata datatypes.JSON `json:"metadata"`
	IsRead   bool           `gorm:"default:false;index" json:"isRead"`

	CreatedAt time.Time `json:"createdAt"`
}

func (n *Notification) BeforeCreate(*gorm.DB) error {
	assignID(&n.ID)
	return nil
}
