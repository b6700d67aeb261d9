package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ApplicationPending  = "PENDING"
	ApplicationApproved = "APPROVED"
	ApplicationRejected = "REJECTED"

	ApplicationTypeRent = "rent"
	ApplicationTypeBuy  = "buy"
)

type Application struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index" json:"userId"`
	ListingID uuid.UUID `gorm:"column:listing_id;type:uuid;not null;index" json:"listingId"`
	Message   string    `gorm:"column:message;type:text" json:"message"`
	Type      string    `gorm:"column:type;type:varchar(10);not null" json:"type"`
	Status    string    `gorm:"column:status;type:varchar(20);not null;default:PENDING" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	Listing   *Listing  `gorm:"foreignKey:ListingID" json:"listing,omitempty"`
}

func (Application) TableName() string {
	return "Applications"
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = ApplicationPending
	}
	return nil
}
