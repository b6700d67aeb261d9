package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ImageList is stored as a JSON array but tolerates legacy rows where images were
// written as a JSON string or raw comma-delimited text.
type ImageList []string

// SplitImages splits comma-delimited text, trimming entries and dropping empties.
func SplitImages(raw string) ImageList {
	out := ImageList{}
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// MarshalJSON sends nil as [] so clients can always iterate.
func (l ImageList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

// Scan implements sql.Scanner. A JSON array comes back exactly as stored; only the
// legacy JSON-string and comma-text forms are split.
func (l *ImageList) Scan(value interface{}) error {
	var raw string
	switch v := value.(type) {
	case nil:
		*l = ImageList{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return errors.New("unsupported type for ImageList")
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*l = ImageList{}
		return nil
	}
	var arr []string
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		if arr == nil {
			arr = []string{}
		}
		*l = ImageList(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal([]byte(raw), &s); err == nil {
		*l = SplitImages(s)
		return nil
	}
	*l = SplitImages(raw)
	return nil
}

// Value implements driver.Valuer for writing to DB.
func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	bs, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(bs), nil
}

// Listing is a rentable or sellable property. OwnerID must reference a LANDLORD;
// AgentID is the user who created it.
type Listing struct {
	ID           uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Title        string           `gorm:"column:title;not null" json:"title"`
	Description  string           `gorm:"column:description;type:text" json:"description"`
	Price        float64          `gorm:"column:price;not null;default:0" json:"price"`
	Location     string           `gorm:"column:location" json:"location"`
	Images       ImageList        `gorm:"column:images;type:text" json:"images"`
	Bedrooms     *int             `gorm:"column:bedrooms" json:"bedrooms"`
	Bathrooms    *int             `gorm:"column:bathrooms" json:"bathrooms"`
	Area         *float64         `gorm:"column:area" json:"area"`
	PropertyType *string          `gorm:"column:property_type" json:"propertyType"`
	Status       *string          `gorm:"column:status;type:varchar(20)" json:"status"`
	Views        int              `gorm:"column:views;not null;default:0" json:"views"`
	OwnerID      uuid.UUID        `gorm:"column:owner_id;type:uuid;not null;index" json:"ownerId"`
	AgentID      *uuid.UUID       `gorm:"column:agent_id;type:uuid;index" json:"agentId"`
	CreatedAt    time.Time        `gorm:"column:created_at;index" json:"createdAt"`
	UpdatedAt    time.Time        `gorm:"column:updated_at" json:"updatedAt"`
	Owner        *User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Agent        *User            `gorm:"foreignKey:AgentID" json:"agent,omitempty"`
	Reviews      []Review         `gorm:"foreignKey:ListingID" json:"reviews,omitempty"`
	Amenities    []ListingAmenity `gorm:"foreignKey:ListingID" json:"amenities,omitempty"`
}

func (Listing) TableName() string {
	return "Listings"
}

// BeforeCreate sets id if not already set (DBs without default uuid).
func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Images == nil {
		l.Images = ImageList{}
	}
	return nil
}

// IsOwnedOrAgentedBy reports whether userID is the owner or the agent of the listing.
func (l *Listing) IsOwnedOrAgentedBy(userID uuid.UUID) bool {
	if l.OwnerID == userID {
		return true
	}
	return l.AgentID != nil && *l.AgentID == userID
}
