package domain

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Amenity struct {
	ID   uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
}

func (Amenity) TableName() string {
	return "Amenities"
}

func (a *Amenity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// ListingAmenity joins a listing to one amenity; (listing_id, amenity_id) is the key.
type ListingAmenity struct {
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;primaryKey" json:"listingId"`
	AmenityID uuid.UUID `gorm:"column:amenity_id;type:uuid;primaryKey" json:"amenityId"`
	Amenity   *Amenity  `gorm:"foreignKey:AmenityID" json:"amenity,omitempty"`
}

func (ListingAmenity) TableName() string {
	return "ListingAmenities"
}
