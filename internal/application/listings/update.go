package listings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"propertyhub-backend/internal/application/listingevents"
	policies "propertyhub-backend/internal/application/policies/listings"
	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ListingPatch holds the fields a client may change. Anything else in the request
// body is dropped during decoding.
type ListingPatch struct {
	Title        *string      `json:"title"`
	Price        *float64     `json:"price"`
	Location     *string      `json:"location"`
	Description  *string      `json:"description"`
	Bedrooms     *int         `json:"bedrooms"`
	Bathrooms    *int         `json:"bathrooms"`
	PropertyType *string      `json:"propertyType"`
	Status       *string      `json:"status"`
	Images       ImagesInput  `json:"images"`
	Amenities    AmenityNames `json:"amenities"`
}

// Columns copies the present fields into a column map for Updates.
func (p ListingPatch) Columns() map[string]interface{} {
	cols := map[string]interface{}{}
	if p.Title != nil {
		cols["title"] = *p.Title
	}
	if p.Price != nil {
		cols["price"] = *p.Price
	}
	if p.Location != nil {
		cols["location"] = *p.Location
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Bedrooms != nil {
		cols["bedrooms"] = *p.Bedrooms
	}
	if p.Bathrooms != nil {
		cols["bathrooms"] = *p.Bathrooms
	}
	if p.PropertyType != nil {
		cols["property_type"] = *p.PropertyType
	}
	if p.Status != nil {
		cols["status"] = *p.Status
	}
	if p.Images.Set {
		cols["images"] = p.Images.Values
	}
	return cols
}

// ImagesInput accepts an array as is. Any other value is wrapped into a
// single-element list; null and "" become an empty list.
type ImagesInput struct {
	Set    bool
	Values domain.ImageList
}

func (in *ImagesInput) UnmarshalJSON(data []byte) error {
	in.Set = true
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		in.Values = domain.ImageList{}
		return nil
	}
	var arr []interface{}
	if err := json.Unmarshal(data, &arr); err == nil {
		in.Values = make(domain.ImageList, 0, len(arr))
		for _, v := range arr {
			in.Values = append(in.Values, scalarString(v))
		}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			in.Values = domain.ImageList{}
		} else {
			in.Values = domain.ImageList{s}
		}
		return nil
	}
	in.Values = domain.ImageList{string(data)}
	return nil
}

// CreateImages splits a delimited string on commas; an array is kept as sent.
type CreateImages struct {
	Values domain.ImageList
}

func (in *CreateImages) UnmarshalJSON(data []byte) error {
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		in.Values = domain.ImageList(arr)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		in.Values = domain.SplitImages(s)
		return nil
	}
	in.Values = domain.ImageList{}
	return nil
}

// AmenityNames is set only when the body carried an array. Names are trimmed,
// blanks and duplicates dropped, order kept.
type AmenityNames struct {
	Set   bool
	Names []string
}

func (a *AmenityNames) UnmarshalJSON(data []byte) error {
	var arr []interface{}
	if err := json.Unmarshal(data, &arr); err != nil || arr == nil {
		a.Set, a.Names = false, nil
		return nil
	}
	a.Set = true
	a.Names = normalizeNames(arr)
	return nil
}

func normalizeNames(in []interface{}) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(in))
	for _, v := range in {
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func scalarString(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		bs, _ := json.Marshal(t)
		return string(bs)
	}
}

// Update applies patch to the listing. The field update and the amenity replace
// share one transaction; any failure leaves the listing untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch ListingPatch, session *domain.Session) (*domain.Listing, error) {
	listing, err := s.find(ctx, id, ErrNotFound)
	if err != nil {
		return nil, err
	}
	if !policies.CanMutate(session, listing, policies.ActionUpdate) {
		return nil, ErrUnauthorized
	}

	tx := s.DB.WithContext(ctx).Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()
	if err := applyPatch(tx, id, patch, session); err != nil {
		tx.Rollback()
		s.Metrics.Mutation("update", err)
		log.Error().Err(err).Str("listing_id", id.String()).Msg("update listing failed")
		return nil, apperrors.UpdateFailed(err)
	}
	if err := tx.Commit().Error; err != nil {
		s.Metrics.Mutation("update", err)
		return nil, apperrors.UpdateFailed(err)
	}
	s.Metrics.Mutation("update", nil)
	return s.Detail(ctx, id)
}

func applyPatch(tx *gorm.DB, id uuid.UUID, patch ListingPatch, session *domain.Session) error {
	cols := patch.Columns()
	if len(cols) > 0 {
		if err := tx.Model(&domain.Listing{}).Where("id = ?", id).Updates(cols).Error; err != nil {
			return err
		}
	}
	if patch.Amenities.Set {
		if err := replaceAmenities(tx, id, patch.Amenities.Names); err != nil {
			return err
		}
	}
	fields := make([]string, 0, len(cols))
	for k := range cols {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	data := map[string]interface{}{"fields": fields}
	if patch.Amenities.Set {
		data["amenities"] = patch.Amenities.Names
	}
	return listingevents.Record(tx, id, domain.EventUpdated, session, data)
}

// replaceAmenities upserts names, then swaps the listing's join rows for the new set.
func replaceAmenities(tx *gorm.DB, listingID uuid.UUID, names []string) error {
	for _, name := range names {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).Create(&domain.Amenity{Name: name}).Error; err != nil {
			return fmt.Errorf("upsert amenity %q: %w", name, err)
		}
	}

	var amenities []domain.Amenity
	if len(names) > 0 {
		if err := tx.Where("name IN ?", names).Find(&amenities).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("listing_id = ?", listingID).Delete(&domain.ListingAmenity{}).Error; err != nil {
		return err
	}
	if len(amenities) == 0 {
		return nil
	}
	rows := make([]domain.ListingAmenity, 0, len(amenities))
	for _, a := range amenities {
		rows = append(rows, domain.ListingAmenity{ListingID: listingID, AmenityID: a.ID})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}
