package models

import (
	"time"

	"gorm.io/gorm"
)

// Review rates either a venue or a service, never both.
type Review struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	UserID string `gorm:"type:uuid;index;not null" json:"userId"`
	User   *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`

	VenueID *string `gorm:"type:uuid;index" json:"venueId"`
	Venue   *Venue  `gorm:"foreignKey:VenueID" json:"venue,omitempty"`

	ServiceID *string  `gorm:"type:uuid;index" json:"serviceId"`
	Service   *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	Rating  int     `gorm:"not null" json:"rating"`
	Comment *string `gorm:"type:text" json:"comment"`

	CreatedAt time.Time `json:"createdAt"`
}

func (r *Review) BeforeCreate(*gorm.DB) error {
	assignID(&r.ID)
	return nil
}
