package constants

const (
	CreateListing  = "create_listing"
	ManageListings = "manage_listings"
	BulkEdit       = "bulk_edit"
	SignUploads    = "sign_uploads"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
var PermissionRoles = map[string][]string{
	CreateListing:  {Agent, Landlord},
	ManageListings: {Agent, Landlord},
	BulkEdit:       {Agent, Landlord},
	SignUploads:    {Agent, Landlord},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	return contains(roles, role)
}
