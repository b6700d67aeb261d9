package listings

import (
	"context"

	"propertyhub-backend/internal/application/listingevents"
	policies "propertyhub-backend/internal/application/policies/listings"
	"propertyhub-backend/internal/domain"

	"github.com/google/uuid"
)

// History returns the audit trail of a listing to whoever may edit it.
func (s *Service) History(ctx context.Context, id uuid.UUID, session *domain.Session) ([]domain.ListingEvent, error) {
	listing, err := s.find(ctx, id, ErrNotFound)
	if err != nil {
		return nil, err
	}
	if !policies.CanMutate(session, listing, policies.ActionUpdate) {
		return nil, ErrUnauthorized
	}
	events := &listingevents.Service{DB: s.DB}
	return events.ListForListing(ctx, id)
}
