package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Venue struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name        string  `gorm:"size:150;not null" json:"name"`
	NameAr      string  `gorm:"size:150" json:"nameAr"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null;default:0" json:"price"`
	Capacity    int     `json:"capacity"`
	Location    string  `gorm:"size:255" json:"location"`

	WorkingHoursStart *string `gorm:"size:5" json:"workingHoursStart"`
	WorkingHoursEnd   *string `gorm:"size:5" json:"workingHoursEnd"`

	IsActive   bool    `gorm:"default:true" json:"isActive"`
	ProviderID *string `gorm:"type:uuid;index" json:"providerId"`

	Clients     int     `gorm:"default:0" json:"clients"`
	Rating      float64 `gorm:"default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"reviewCount"`

	Images datatypes.JSON `json:"images"`

	Services []Service `gorm:"many2many:venue_services;" json:"services,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (v *Venue) BeforeCreate(*gorm.DB) error {
	assignID(&v.ID)
	return nil
}

// VenueService is the join row between a venue and its bundled services.
type VenueService struct {
	VenueID   string `gorm:"type:uuid;primaryKey" json:"venueId"`
	ServiceID string `gorm:"type:uuid;primaryKey" json:"serviceId"`

	CreatedAt time.Time `json:"createdAt"`
}
