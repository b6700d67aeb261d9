// Package policies decides who may create and change listings. Every function is
// side-effect free; callers load the listing first.
package policies

import (
	"propertyhub-backend/internal/domain"
	"propertyhub-backend/internal/pkg/constants"
)

type Action string

const (
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// CanCreate: session present with role AGENT or LANDLORD.
func CanCreate(session *domain.Session) bool {
	return session != nil && constants.AllowedRole(constants.CreateListing, session.Role)
}

// CanManageListings gates the caller-scoped listing views and bulk edits.
func CanManageListings(session *domain.Session) bool {
	return session != nil && constants.AllowedRole(constants.ManageListings, session.Role)
}

// CanMutate allows update/delete only to an AGENT or LANDLORD who is the listing's
// agent or owner. Role alone is not enough, and ADMIN gets no bypass.
func CanMutate(session *domain.Session, listing *domain.Listing, action Action) bool {
	if session == nil || listing == nil {
		return false
	}
	if action != ActionUpdate && action != ActionDelete {
		return false
	}
	if !constants.AllowedRole(constants.ManageListings, session.Role) {
		return false
	}
	return listing.IsOwnedOrAgentedBy(session.UserID)
}
