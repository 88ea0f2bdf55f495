package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ServiceTypeVenue        = "VENUE"
	ServiceTypeFoodProvider = "FOOD_PROVIDER"
	ServiceTypePhotographer = "PHOTOGRAPHER"
	ServiceTypeCar          = "CAR"
	ServiceTypeDecoration   = "DECORATION"
	ServiceTypeDJ           = "DJ"
	ServiceTypeFlorist      = "FLORIST"
	ServiceTypeOther        = "OTHER"
)

var ServiceTypes = []string{
	ServiceTypeVenue,
	ServiceTypeFoodProvider,
	ServiceTypePhotographer,
	ServiceTypeCar,
	ServiceTypeDecoration,
	ServiceTypeDJ,
	ServiceTypeFlorist,
	ServiceTypeOther,
}

type Service struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	Name        string  `gorm:"size:150;not null" json:"name"`
	NameAr      string  `gorm:"size:150" json:"nameAr"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"not null;default:0" json:"price"`

	CategoryID *string `gorm:"type:uuid;index" json:"categoryId"`
	ProviderID *string `gorm:"type:uuid;index" json:"providerId"`

	ServiceType   string `gorm:"size:20;default:'OTHER'" json:"serviceType"`
	WorksInVenues bool   `gorm:"default:true" json:"worksInVenues"`
	WorksExternal bool   `gorm:"default:false" json:"worksExternal"`
	RequiresVenue bool   `gorm:"default:false" json:"requiresVenue"`

	WorkingHoursStart *string `gorm:"size:5" json:"workingHoursStart"`
	WorkingHoursEnd   *string `gorm:"size:5" json:"workingHoursEnd"`

	IsActive bool           `gorm:"default:true" json:"isActive"`
	Images   datatypes.JSON `json:"images"`

	Rating      float64 `gorm:"default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"reviewCount"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Service) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
