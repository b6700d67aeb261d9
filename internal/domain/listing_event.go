package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EventCreated      = "CREATED"
	EventUpdated      = "UPDATED"
	EventDeleted      = "DELETED"
	EventImagesAdded  = "IMAGES_ADDED"
	EventImageRemoved = "IMAGE_REMOVED"
)

// ListingEvent is the audit trail of listing mutations. Rows outlive the listing.
type ListingEvent struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ListingID uuid.UUID      `gorm:"column:listing_id;type:uuid;not null;index" json:"listingId"`
	EventType string         `gorm:"column:event_type;type:varchar(30);not null" json:"eventType"`
	ActorID   *uuid.UUID     `gorm:"column:actor_id;type:uuid" json:"actorId"`
	EventData datatypes.JSON `gorm:"column:event_data" json:"eventData"`
	CreatedAt time.Time      `gorm:"column:created_at" json:"createdAt"`
}

func (ListingEvent) TableName() string {
	return "ListingEvents"
}

func (e *ListingEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
