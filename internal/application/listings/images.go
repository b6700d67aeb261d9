package listings

import (
	"context"

	"propertyhub-backend/internal/application/listingevents"
	policies "propertyhub-backend/internal/application/policies/listings"
	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var ErrNoImages = apperrors.Validation("No images provided")

// ImageFile is one uploaded file read into memory.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// AttachImages uploads files in order and appends their URLs to the listing. Nothing
// is written to the listing unless every upload succeeds.
func (s *Service) AttachImages(ctx context.Context, id uuid.UUID, files []ImageFile, session *domain.Session) ([]string, error) {
	listing, err := s.find(ctx, id, ErrListingNotFound)
	if err != nil {
		return nil, err
	}
	if !policies.CanMutate(session, listing, policies.ActionUpdate) {
		return nil, ErrUnauthorized
	}
	if len(files) == 0 {
		return nil, ErrNoImages
	}

	urls := make([]string, 0, len(files))
	for _, f := range files {
		url, err := s.Storage.Upload(ctx, f.Name, f.ContentType, f.Data)
		s.Metrics.Upload(err)
		if err != nil {
			log.Error().Err(err).Str("listing_id", id.String()).Str("file", f.Name).Msg("image upload failed")
			return nil, apperrors.StorageFailed(f.Name, err)
		}
		urls = append(urls, url)
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	var fresh domain.Listing
	if err := tx.Where("id = ?", id).First(&fresh).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.UpdateFailed(err)
	}
	images := append(domain.ImageList{}, fresh.Images...)
	images = append(images, urls...)
	if err := tx.Model(&domain.Listing{}).Where("id = ?", id).Update("images", images).Error; err != nil {
		tx.Rollback()
		s.Metrics.Mutation("attach_images", err)
		return nil, apperrors.UpdateFailed(err)
	}
	if err := listingevents.Record(tx, id, domain.EventImagesAdded, session, map[string]interface{}{"urls": urls}); err != nil {
		tx.Rollback()
		s.Metrics.Mutation("attach_images", err)
		return nil, apperrors.UpdateFailed(err)
	}
	if err := tx.Commit().Error; err != nil {
		s.Metrics.Mutation("attach_images", err)
		return nil, apperrors.UpdateFailed(err)
	}
	s.Metrics.Mutation("attach_images", nil)
	return urls, nil
}

// DetachImage removes the first exact match of url. A url that is not attached is
// not an error and changes nothing.
func (s *Service) DetachImage(ctx context.Context, id uuid.UUID, url string, session *domain.Session) (domain.ImageList, error) {
	listing, err := s.find(ctx, id, ErrListingNotFound)
	if err != nil {
		return nil, err
	}
	if !policies.CanMutate(session, listing, policies.ActionUpdate) {
		return nil, ErrUnauthorized
	}

	idx := -1
	for i, u := range listing.Images {
		if u == url {
			idx = i
			break
		}
	}
	if idx < 0 {
		return listing.Images, nil
	}
	remaining := make(domain.ImageList, 0, len(listing.Images)-1)
	remaining = append(remaining, listing.Images[:idx]...)
	remaining = append(remaining, listing.Images[idx+1:]...)

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := tx.Model(&domain.Listing{}).Where("id = ?", id).Update("images", remaining).Error; err != nil {
		tx.Rollback()
		s.Metrics.Mutation("detach_image", err)
		return nil, apperrors.UpdateFailed(err)
	}
	if err := listingevents.Record(tx, id, domain.EventImageRemoved, session, map[string]interface{}{"url": url}); err != nil {
		tx.Rollback()
		s.Metrics.Mutation("detach_image", err)
		return nil, apperrors.UpdateFailed(err)
	}
	if err := tx.Commit().Error; err != nil {
		s.Metrics.Mutation("detach_image", err)
		return nil, apperrors.UpdateFailed(err)
	}
	s.Metrics.Mutation("detach_image", nil)
	return remaining, nil
}
