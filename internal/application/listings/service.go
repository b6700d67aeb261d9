package listings

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"propertyhub-backend/internal/application/listingevents"
	policies "propertyhub-backend/internal/application/policies/listings"
	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/infrastructure/storage"
	"propertyhub-backend/internal/pkg/apperrors"
	"propertyhub-backend/internal/pkg/constants"
	"propertyhub-backend/internal/platform/metrics"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized    = apperrors.Forbidden("Unauthorized")
	ErrNotFound        = apperrors.NotFound("Not found")
	ErrListingNotFound = apperrors.NotFound("Listing not found")
	ErrMissingOwnerID  = apperrors.Validation("Missing ownerId")
	ErrInvalidOwner    = apperrors.Validation("ownerId must reference an existing landlord")
	ErrMissingTitle    = apperrors.Validation("Missing title")
)

type Service struct {
	DB      *gorm.DB
	Storage storage.Storage
	Metrics *metrics.Manager
}

type CreateInput struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	Location     string       `json:"location"`
	Images       CreateImages `json:"images"`
	Bedrooms     *int         `json:"bedrooms"`
	Bathrooms    *int         `json:"bathrooms"`
	Area         *float64     `json:"area"`
	PropertyType *string      `json:"propertyType"`
	Status       *string      `json:"status"`
	OwnerID      string       `json:"ownerId"`
	Amenities    AmenityNames `json:"amenities"`
}

// Create persists a listing on behalf of an AGENT or LANDLORD, who becomes its agent.
func (s *Service) Create(ctx context.Context, in CreateInput, session *domain.Session) (*domain.Listing, error) {
	if !policies.CanCreate(session) {
		return nil, ErrUnauthorized
	}
	if strings.TrimSpace(in.OwnerID) == "" {
		return nil, ErrMissingOwnerID
	}
	ownerID, err := uuid.Parse(strings.TrimSpace(in.OwnerID))
	if err != nil {
		return nil, ErrInvalidOwner
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrMissingTitle
	}

	var owner domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", ownerID).First(&owner).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidOwner
		}
		return nil, apperrors.CreateFailed(err)
	}
	if owner.Role != constants.Landlord {
		return nil, ErrInvalidOwner
	}

	agentID := session.UserID
	listing := &domain.Listing{
		Title:        title,
		Description:  in.Description,
		Price:        in.Price,
		Location:     in.Location,
		Images:       in.Images.Values,
		Bedrooms:     in.Bedrooms,
		Bathrooms:    in.Bathrooms,
		Area:         in.Area,
		PropertyType: in.PropertyType,
		Status:       in.Status,
		Views:        0,
		OwnerID:      ownerID,
		AgentID:      &agentID,
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Create(listing).Error; err != nil {
		tx.Rollback()
		s.Metrics.Mutation("create", err)
		return nil, apperrors.CreateFailed(err)
	}
	if in.Amenities.Set {
		if err := replaceAmenities(tx, listing.ID, in.Amenities.Names); err != nil {
			tx.Rollback()
			s.Metrics.Mutation("create", err)
			return nil, apperrors.CreateFailed(err)
		}
	}
	if err := listingevents.Record(tx, listing.ID, domain.EventCreated, session, map[string]interface{}{
		"title":   listing.Title,
		"price":   listing.Price,
		"ownerId": listing.OwnerID,
	}); err != nil {
		tx.Rollback()
		s.Metrics.Mutation("create", err)
		return nil, apperrors.CreateFailed(err)
	}
	if err := tx.Commit().Error; err != nil {
		s.Metrics.Mutation("create", err)
		return nil, apperrors.CreateFailed(err)
	}
	s.Metrics.Mutation("create", nil)
	log.Info().Str("listing_id", listing.ID.String()).Str("agent_id", agentID.String()).Msg("listing created")
	return s.Detail(ctx, listing.ID)
}

// List returns every listing with agent, owner and reviews, newest first.
func (s *Service) List(ctx context.Context) ([]domain.Listing, error) {
	var listings []domain.Listing
	if err := s.DB.WithContext(ctx).
		Preload("Agent").
		Preload("Owner").
		Preload("Reviews").
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("Failed to fetch listings: %w", err)
	}
	return listings, nil
}

// Detail loads one listing joined with agent, owner, reviews and amenity names.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	var listing domain.Listing
	err := s.DB.WithContext(ctx).
		Preload("Agent").
		Preload("Owner").
		Preload("Reviews", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Amenities.Amenity").
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &listing, nil
}

// Delete removes a listing with its join rows, favorites, reviews, applications and
// view history. The audit trail is kept.
func (s *Service) Delete(ctx context.Context, id uuid.UUID, session *domain.Session) error {
	listing, err := s.find(ctx, id, ErrNotFound)
	if err != nil {
		return err
	}
	if !policies.CanMutate(session, listing, policies.ActionDelete) {
		return ErrUnauthorized
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	dependents := []interface{}{
		&domain.ListingAmenity{},
		&domain.Favorite{},
		&domain.Review{},
		&domain.Application{},
		&domain.PropertyView{},
	}
	for _, model := range dependents {
		if err := tx.Where("listing_id = ?", id).Delete(model).Error; err != nil {
			tx.Rollback()
			s.Metrics.Mutation("delete", err)
			return apperrors.UpdateFailed(err)
		}
	}
	if err := tx.Where("id = ?", id).Delete(&domain.Listing{}).Error; err != nil {
		tx.Rollback()
		s.Metrics.Mutation("delete", err)
		return apperrors.UpdateFailed(err)
	}
	if err := listingevents.Record(tx, id, domain.EventDeleted, session, map[string]interface{}{
		"title": listing.Title,
	}); err != nil {
		tx.Rollback()
		s.Metrics.Mutation("delete", err)
		return apperrors.UpdateFailed(err)
	}
	if err := tx.Commit().Error; err != nil {
		s.Metrics.Mutation("delete", err)
		return apperrors.UpdateFailed(err)
	}
	s.Metrics.Mutation("delete", nil)
	log.Info().Str("listing_id", id.String()).Str("actor_id", session.UserID.String()).Msg("listing deleted")
	return nil
}

// CheckMutable runs the update guard without changing anything.
func (s *Service) CheckMutable(ctx context.Context, id uuid.UUID, session *domain.Session) error {
	listing, err := s.find(ctx, id, ErrNotFound)
	if err != nil {
		return err
	}
	if !policies.CanMutate(session, listing, policies.ActionUpdate) {
		return ErrUnauthorized
	}
	return nil
}

func (s *Service) find(ctx context.Context, id uuid.UUID, notFound *apperrors.Error) (*domain.Listing, error) {
	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound
		}
		return nil, err
	}
	return &listing, nil
}
