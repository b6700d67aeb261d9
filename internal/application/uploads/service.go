package uploads

import (
	"context"
	"path/filepath"
	"strings"

	policies "propertyhub-backend/internal/application/policies/listings"
	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/infrastructure/storage"
	"propertyhub-backend/internal/pkg/apperrors"
)

var (
	ErrUnauthorized     = apperrors.Forbidden("Unauthorized")
	ErrFileNameRequired = apperrors.Validation("fileName is required")
	ErrUnsupportedType  = apperrors.Validation("Only jpg, jpeg, png, webp and gif images are allowed")
)

var allowedExt = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}

// Service hands out signed upload URLs so browsers can push listing images straight
// to object storage.
type Service struct {
	Storage storage.Storage
}

// GetSignedUploadURL signs an upload for fileName on behalf of an AGENT or LANDLORD.
func (s *Service) GetSignedUploadURL(ctx context.Context, session *domain.Session, fileName string) (*storage.SignedUpload, error) {
	if !policies.CanCreate(session) {
		return nil, ErrUnauthorized
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return nil, ErrFileNameRequired
	}
	if !allowedExt[strings.ToLower(filepath.Ext(fileName))] {
		return nil, ErrUnsupportedType
	}
	return s.Storage.SignUpload(ctx, filepath.Base(fileName))
}

// AllowedImage reports whether a file name has an accepted image extension.
func AllowedImage(fileName string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(fileName))]
}
