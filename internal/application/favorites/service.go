package favorites

import (
	"context"
	"errors"

	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized    = apperrors.Forbidden("Unauthorized")
	ErrListingNotFound = apperrors.NotFound("Listing not found")
)

type Service struct {
	DB *gorm.DB
}

// Add favorites a listing for the session user. Repeating it keeps a single row.
func (s *Service) Add(ctx context.Context, session *domain.Session, listingID uuid.UUID) error {
	if session == nil {
		return ErrUnauthorized
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&domain.Listing{}).Where("id = ?", listingID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return ErrListingNotFound
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND listing_id = ?", session.UserID, listingID).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		return tx.Create(&domain.Favorite{UserID: session.UserID, ListingID: listingID}).Error
	})
}

// Remove deletes the favorite if present.
func (s *Service) Remove(ctx context.Context, session *domain.Session, listingID uuid.UUID) error {
	if session == nil {
		return ErrUnauthorized
	}
	return s.DB.WithContext(ctx).Where("user_id = ? AND listing_id = ?", session.UserID, listingID).Delete(&domain.Favorite{}).Error
}

// ListMine returns the session user's favorites with the listing, its agent, owner
// and reviews, newest first.
func (s *Service) ListMine(ctx context.Context, session *domain.Session) ([]domain.Favorite, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	var out []domain.Favorite
	err := s.DB.WithContext(ctx).
		Preload("Listing").
		Preload("Listing.Agent").
		Preload("Listing.Owner").
		Preload("Listing.Reviews").
		Where("user_id = ?", session.UserID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return out, nil
}
