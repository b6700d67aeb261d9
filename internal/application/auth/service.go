package auth

import (
	"context"
	"errors"
	"strings"

	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/apperrors"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrCredentialsRequired = apperrors.Validation("Email and password are required")
	ErrInvalidCredentials  = apperrors.Unauthenticated("Invalid email or password")
)

// Credentials is the login body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Authenticator checks credentials against stored users.
type Authenticator interface {
	Authenticate(ctx context.Context, in Credentials) (*domain.User, error)
}

type Service struct {
	DB *gorm.DB
}

// Authenticate looks the user up by lower-cased email and compares the bcrypt hash.
// Unknown email and wrong password give the same error.
func (s *Service) Authenticate(ctx context.Context, in Credentials) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, ErrCredentialsRequired
	}
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}
