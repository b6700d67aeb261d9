package applications

import (
	"context"
	"errors"
	"strings"

	"propertyhub-backend/internal/application/emails"
	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/apperrors"
	"propertyhub-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrUnauthorized    = apperrors.Forbidden("Unauthorized")
	ErrListingNotFound = apperrors.NotFound("Listing not found")
)

type Service struct {
	DB     *gorm.DB
	Emails emails.Sender // optional; notifies the listing owner
}

type CreateInput struct {
	ListingID string `json:"listingId" validate:"required,uuid"`
	Message   string `json:"message" validate:"max=2000"`
	Type      string `json:"type" validate:"required,oneof=rent buy"`
}

// Create files a rent/buy application for the session user; it starts PENDING.
func (s *Service) Create(ctx context.Context, session *domain.Session, in CreateInput) (*domain.Application, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	in.Type = strings.ToLower(strings.TrimSpace(in.Type))
	in.ListingID = strings.TrimSpace(in.ListingID)
	if err := validation.Struct(in); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	listingID := uuid.MustParse(in.ListingID)

	var listing domain.Listing
	if err := s.DB.WithContext(ctx).Preload("Owner").Where("id = ?", listingID).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	app := &domain.Application{
		UserID:    session.UserID,
		ListingID: listingID,
		Message:   strings.TrimSpace(in.Message),
		Type:      in.Type,
		Status:    domain.ApplicationPending,
	}
	if err := s.DB.WithContext(ctx).Create(app).Error; err != nil {
		return nil, err
	}
	s.notifyOwner(ctx, &listing, app)
	return app, nil
}

// notifyOwner is best-effort; a failed send never fails the application.
func (s *Service) notifyOwner(ctx context.Context, listing *domain.Listing, app *domain.Application) {
	if s.Emails == nil || listing.Owner == nil {
		return
	}
	applicant := "Someone"
	var u domain.User
	if err := s.DB.WithContext(ctx).Select("name").Where("id = ?", app.UserID).First(&u).Error; err == nil && u.Name != "" {
		applicant = u.Name
	}
	err := s.Emails.SendApplicationReceived(ctx, emails.ApplicationNotice{
		OwnerEmail:    listing.Owner.Email,
		OwnerName:     listing.Owner.Name,
		ListingTitle:  listing.Title,
		ApplicantName: applicant,
		Type:          app.Type,
		Message:       app.Message,
	})
	if err != nil {
		log.Warn().Err(err).Str("application_id", app.ID.String()).Msg("application email failed")
	}
}

// ListMine returns the session user's applications with a listing preview, newest first.
func (s *Service) ListMine(ctx context.Context, session *domain.Session) ([]domain.Application, error) {
	if session == nil {
		return nil, ErrUnauthorized
	}
	out := []domain.Application{}
	err := s.DB.WithContext(ctx).
		Preload("Listing", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, title, price, location, images, owner_id, agent_id, created_at, updated_at")
		}).
		Where("user_id = ?", session.UserID).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}
