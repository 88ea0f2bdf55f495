package models

import (
	"time"

	"gorm.io/gorm"
)

type VenueHoliday struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	VenueID     string    `gorm:"type:uuid;not null;uniqueIndex:idx_venue_holiday_date" json:"venueId"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:idx_venue_holiday_date" json:"date"`
	Reason      string    `gorm:"size:255" json:"reason"`
	IsRecurring bool      `gorm:"default:false" json:"isRecurring"`

	CreatedAt time.Time `json:"createdAt"`
}

func (h *VenueHoliday) BeforeCreate(*gorm.DB) error {
	assignID(&h.ID)
	return nil
}

type ServiceHoliday struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	ServiceID   string    `gorm:"type:uuid;not null;uniqueIndex:idx_service_holiday_date" json:"serviceId"`
	Date        time.Time `gorm:"type:date;not null;uniqueIndex:idx_service_holiday_date" json:"date"`
	Reason      string    `gorm:"size:255" json:"reason"`
	IsRecurring bool      `gorm:"default:false" json:"isRecurring"`

	CreatedAt time.Time `json:"createdAt"`
}

func (h *ServiceHoliday) BeforeCreate(*gorm.DB) error {
	assignID(&h.ID)
	return nil
}
