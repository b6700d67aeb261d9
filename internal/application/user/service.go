package user

import (
	"context"
	"errors"
	"strings"

	"propertyhub-backend/internal/application/emails"
	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/apperrors"
	"propertyhub-backend/internal/pkg/constants"
	"propertyhub-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrMissingFields = apperrors.Validation("Name, email, and password are required")
	ErrUserExists    = apperrors.Conflict("User already exists")
	ErrUserNotFound  = apperrors.NotFound("User not found")
)

// Service holds DB for user operations.
type Service struct {
	DB     *gorm.DB
	Emails emails.Sender // optional welcome mail
}

// SignupInput is the signup body. Role is optional and limited to self-service roles.
type SignupInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,loose_email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=RENTER LANDLORD AGENT"`
}

// Signup creates a user with a bcrypt hash. Email is stored lower-cased.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*domain.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Role = strings.ToUpper(strings.TrimSpace(in.Role))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if err := validation.Struct(in); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	role := in.Role
	if role == "" {
		role = constants.Renter
	}

	var existing domain.User
	err := s.DB.WithContext(ctx).Where("email = ?", in.Email).First(&existing).Error
	if err == nil {
		return nil, ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), 10)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	if s.Emails != nil {
		if err := s.Emails.SendWelcome(ctx, u.Email, u.Name, u.Role); err != nil {
			log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("welcome email failed")
		}
	}
	return u, nil
}

// Summary is the public projection used by pickers (e.g. choosing a listing owner).
type Summary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// ListByRole returns users, filtered by role when one is given.
func (s *Service) ListByRole(ctx context.Context, role string) ([]Summary, error) {
	q := s.DB.WithContext(ctx).Model(&domain.User{}).Select("id, name, email").Order("name ASC")
	if role = strings.ToUpper(strings.TrimSpace(role)); role != "" {
		if !constants.IsValidRole(role) {
			return nil, apperrors.Validation("Invalid role")
		}
		q = q.Where("role = ?", role)
	}
	out := []Summary{}
	if err := q.Scan(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ViewUser loads one user by id.
func (s *Service) ViewUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
