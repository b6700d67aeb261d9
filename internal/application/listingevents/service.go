package listingevents

import (
	"context"
	"encoding/json"
	"fmt"

	"propertyhub-backend/internal/domain"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

// Record appends an event using tx so it commits or rolls back with the mutation.
func Record(tx *gorm.DB, listingID uuid.UUID, eventType string, actor *domain.Session, data map[string]interface{}) error {
	if data == nil {
		data = map[string]interface{}{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode listing event: %w", err)
	}
	ev := &domain.ListingEvent{
		ListingID: listingID,
		EventType: eventType,
		EventData: datatypes.JSON(raw),
	}
	if actor != nil {
		id := actor.UserID
		ev.ActorID = &id
	}
	if err := tx.Create(ev).Error; err != nil {
		return fmt.Errorf("create listing event: %w", err)
	}
	return nil
}

// ListForListing returns the events of one listing, oldest first.
func (s *Service) ListForListing(ctx context.Context, listingID uuid.UUID) ([]domain.ListingEvent, error) {
	var events []domain.ListingEvent
	if err := s.DB.WithContext(ctx).Where("listing_id = ?", listingID).Order("created_at ASC").Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}
