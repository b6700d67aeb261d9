package listings

import (
	"context"
	"strings"

	policies "propertyhub-backend/internal/application/policies/listings"
	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/apperrors"

	"github.com/google/uuid"
)

var (
	ErrAccessDenied = apperrors.Forbidden("Access denied")
	ErrNoUpdates    = apperrors.Validation("Expected a non-empty array of updates")
)

// BulkItem is one entry of a bulk update: the listing id plus the same patch fields
// accepted by Update.
type BulkItem struct {
	ID string `json:"id"`
	ListingPatch
}

type BulkResult struct {
	ID      string          `json:"id"`
	Success bool            `json:"success"`
	Listing *domain.Listing `json:"listing,omitempty"`
	Error   string          `json:"error,omitempty"`
}

type BulkOutcome struct {
	Success bool         `json:"success"`
	Results []BulkResult `json:"results"`
}

// BulkUpdate applies each item in order, each in its own transaction and through the
// same guard as Update. A failing item is reported and the rest still run.
func (s *Service) BulkUpdate(ctx context.Context, items []BulkItem, session *domain.Session) (*BulkOutcome, error) {
	if !policies.CanManageListings(session) {
		return nil, ErrUnauthorized
	}
	if len(items) == 0 {
		return nil, ErrNoUpdates
	}

	out := &BulkOutcome{Success: true, Results: make([]BulkResult, 0, len(items))}
	for _, item := range items {
		res := BulkResult{ID: item.ID}
		id, err := uuid.Parse(strings.TrimSpace(item.ID))
		if err != nil {
			res.Error = "Invalid id"
		} else if listing, err := s.Update(ctx, id, item.ListingPatch, session); err != nil {
			res.Error = bulkErrorText(err)
		} else {
			res.Success = true
			res.Listing = listing
		}
		if !res.Success {
			out.Success = false
		}
		out.Results = append(out.Results, res)
	}
	return out, nil
}

func bulkErrorText(err error) string {
	if ae, ok := apperrors.As(err); ok {
		if d, ok := ae.Details.(string); ok && d != "" {
			return ae.Message + ": " + d
		}
		return ae.Message
	}
	return "Internal Server Error"
}

type ListingCounts struct {
	Favorites int64 `json:"favorites"`
	Reviews   int64 `json:"reviews"`
}

// ListingWithCounts is a listing plus its favorite and review totals.
type ListingWithCounts struct {
	domain.Listing
	Count ListingCounts `json:"_count"`
}

// BulkListings returns the caller's owned or agented listings, newest first.
func (s *Service) BulkListings(ctx context.Context, session *domain.Session) ([]ListingWithCounts, error) {
	if !policies.CanManageListings(session) {
		return nil, ErrAccessDenied
	}
	db := s.DB.WithContext(ctx)

	var listings []domain.Listing
	if err := db.Where("owner_id = ? OR agent_id = ?", session.UserID, session.UserID).
		Order("created_at DESC").
		Find(&listings).Error; err != nil {
		return nil, err
	}
	out := make([]ListingWithCounts, 0, len(listings))
	if len(listings) == 0 {
		return out, nil
	}
	ids := make([]uuid.UUID, 0, len(listings))
	for _, l := range listings {
		ids = append(ids, l.ID)
	}

	favorites, err := s.countByListing(ctx, &domain.Favorite{}, ids)
	if err != nil {
		return nil, err
	}
	reviews, err := s.countByListing(ctx, &domain.Review{}, ids)
	if err != nil {
		return nil, err
	}
	for _, l := range listings {
		key := l.ID.String()
		out = append(out, ListingWithCounts{
			Listing: l,
			Count:   ListingCounts{Favorites: favorites[key], Reviews: reviews[key]},
		})
	}
	return out, nil
}

func (s *Service) countByListing(ctx context.Context, model interface{}, ids []uuid.UUID) (map[string]int64, error) {
	var rows []struct {
		ListingID string
		N         int64
	}
	if err := s.DB.WithContext(ctx).Model(model).
		Select("listing_id, COUNT(*) AS n").
		Where("listing_id IN ?", ids).
		Group("listing_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.ListingID] = r.N
	}
	return counts, nil
}
