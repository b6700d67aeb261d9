package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyView is one detail-page hit, kept for time-bucketed analytics.
type PropertyView struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listingId"`
	CreatedAt time.Time `gorm:"column:created_at;index" json:"createdAt"`
}

func (PropertyView) TableName() string {
	return "PropertyViews"
}

func (v *PropertyView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
