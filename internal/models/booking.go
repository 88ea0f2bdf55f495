package models

import (
	"time"

	"gorm.io/gorm"
)

type Booking struct {
	ID            string `gorm:"type:uuid;primaryKey" json:"id"`
	BookingNumber string `gorm:"size:40;uniqueIndex;not null" json:"bookingNumber"`

	CustomerID string `gorm:"type:uuid;index;not null" json:"customerId"`
	Customer   *User  `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`

	VenueID *string `gorm:"type:uuid;index" json:"venueId"`
	Venue   *Venue  `gorm:"foreignKey:VenueID" json:"venue,omitempty"`

	BookingType string `gorm:"size:20;not null" json:"bookingType"`

	Date      time.Time `gorm:"index;not null" json:"date"`
	EventDate string    `gorm:"size:40" json:"eventDate,omitempty"`
	StartTime *string   `gorm:"size:5" json:"startTime"`
	EndTime   *string   `gorm:"size:5" json:"endTime"`

	Location          *string  `gorm:"size:255" json:"location"`
	LocationAddress   *string  `gorm:"size:255" json:"locationAddress"`
	LocationLatitude  *float64 `json:"locationLatitude"`
	LocationLongitude *float64 `json:"locationLongitude"`

	Status string `gorm:"size:20;index;default:'PENDING'" json:"status"`

	TotalAmount     float64 `json:"totalAmount"`
	Discount        float64 `json:"discount"`
	FinalAmount     float64 `json:"finalAmount"`
	DepositAmount   float64 `json:"depositAmount"`
	RemainingAmount float64 `json:"remainingAmount"`

	DepositPaid   bool    `gorm:"default:false" json:"depositPaid"`
	RemainingPaid bool    `gorm:"default:false" json:"remainingPaid"`
	PaymentMethod *string `gorm:"size:20" json:"paymentMethod"`
	PaymentStatus string  `gorm:"size:20;default:'PENDING'" json:"paymentStatus"`

	Notes      *string `gorm:"type:text" json:"notes"`
	GuestCount *int    `json:"guestCount,omitempty"`

	Services []BookingService `gorm:"foreignKey:BookingID" json:"services,omitempty"`
	Payments []Payment        `gorm:"foreignKey:BookingID" json:"payments,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	assignID(&b.ID)
	return nil
}

// BookingService is a line item. Price is a snapshot taken at booking time.
type BookingService struct {
	ID        string   `gorm:"type:uuid;primaryKey" json:"id"`
	BookingID string   `gorm:"type:uuid;index;not null" json:"bookingId"`
	ServiceID string   `gorm:"type:uuid;index;not null" json:"serviceId"`
	Service   *Service `gorm:"foreignKey:ServiceID" json:"service,omitempty"`

	ServiceName string  `gorm:"size:150" json:"serviceName"`
	Price       float64 `json:"price"`

	Date      *time.Time `gorm:"index" json:"date"`
	StartTime *string    `gorm:"size:5" json:"startTime"`
	EndTime   *string    `gorm:"size:5" json:"endTime"`
	Duration  *int       `json:"duration"`

	LocationType      string   `gorm:"size:20" json:"locationType"`
	LocationAddress   *string  `gorm:"size:255" json:"locationAddress"`
	LocationLatitude  *float64 `json:"locationLatitude"`
	LocationLongitude *float64 `json:"locationLongitude"`

	Notes *string `gorm:"type:text" json:"notes"`

	CreatedAt time.Time `json:"createdAt"`
}

func (s *BookingService) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
